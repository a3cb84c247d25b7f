package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatalf("Usage: %s <bearer-token> <tool-id> [org-id] [server-addr]", os.Args[0])
	}

	bearerToken := os.Args[1]
	toolID := os.Args[2]
	orgID := ""
	if len(os.Args) > 3 {
		orgID = os.Args[3]
	}
	serverAddr := "http://localhost:8180"
	if len(os.Args) > 4 {
		serverAddr = "http://localhost" + os.Args[4]
	}

	healthResp, err := http.Get(serverAddr + "/health")
	if err != nil {
		log.Fatalf("Health check failed: %v", err)
	}
	healthResp.Body.Close()
	fmt.Printf("Health: %d\n\n", healthResp.StatusCode)

	payload := fmt.Sprintf(`{"toolId":%q,"orgId":%q,"input":{"ping":true}}`, toolID, orgID)
	req, err := http.NewRequest("POST", serverAddr+"/mcp/execute", strings.NewReader(payload))
	if err != nil {
		log.Fatalf("Failed to create request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+bearerToken)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Failed to read response: %v", err)
	}

	if resp.StatusCode == http.StatusOK {
		fmt.Println("✅ Execution ALLOWED")
		fmt.Printf("\nUpstream response (%s):\n", resp.Header.Get("Content-Type"))
		fmt.Println(string(body))
	} else {
		fmt.Printf("❌ Execution DENIED\n")
		fmt.Printf("Status: %d\n", resp.StatusCode)
		fmt.Printf("Body: %s\n", string(body))
	}
}
