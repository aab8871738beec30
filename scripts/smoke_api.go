package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:8000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // generate-reply can take a while, no timeout
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func sendFile(url, filename string, content []byte) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, nil, err
	}
	part.Write(content)
	writer.Close()

	req, err := http.NewRequest("POST", baseURL+url, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func show(body []byte) {
	var parsed map[string]interface{}
	json.Unmarshal(body, &parsed)
	prettyPrint(parsed)
}

func main() {
	color.Cyan("🚀 Starting Reply Pipeline API Smoke Test\n")

	// 1. Health
	color.Yellow("\n1. Health Check")
	resp, body, err := sendRequest("GET", "/system/v1/health", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	show(body)

	// 2. Store emails for two different customers
	color.Yellow("\n2. Store Email (customer A)")
	resp, body, err = sendRequest("POST", "/ingest/v1/store-email", map[string]interface{}{
		"email_content": "Hi, my NexusBook Pro screen cracked last week. Is it covered?",
		"sender_info":   "alice@example.com",
		"date_time":     "2026-08-20T10:00:00Z",
		"email_id":      "smoke-email-a1",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	show(body)

	color.Yellow("\n3. Store Email (customer B)")
	resp, body, err = sendRequest("POST", "/ingest/v1/store-email", map[string]interface{}{
		"email_content": "My order #12345 for a NexusPhone is delayed, serial XYZ-789.",
		"sender_info":   "bob@example.com",
		"date_time":     "2026-08-21T09:30:00Z",
		"email_id":      "smoke-email-b1",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	show(body)

	// 4. Upload a policy document
	color.Yellow("\n4. Process Company Document")
	policy := []byte("Screen damage on NexusBook devices is covered for 12 months.\n\n" +
		"Delayed orders are refunded automatically after 30 days.\n\n" +
		"Support phone line: 1800-2809-5533, available 24/7.")
	resp, body, err = sendFile("/ingest/v1/process-company-document", "support_policies.txt", policy)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	show(body)

	// 5. Ingest stats
	color.Yellow("\n5. Ingest Stats")
	resp, body, err = sendRequest("GET", "/ingest/v1/stats", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	show(body)

	// 6. Generate a reply for customer A
	color.Yellow("\n6. Generate Reply (customer A)")
	resp, body, err = sendRequest("POST", "/reply/v1/generate-reply", map[string]interface{}{
		"email_content": "Any update on the cracked screen I reported?",
		"sender_info":   "alice@example.com",
		"subject":       "Re: Broken screen",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	show(body)

	// Pull run id out for the audit lookup
	var replyEnvelope struct {
		Data struct {
			RunId string `json:"run_id"`
		} `json:"data"`
	}
	json.Unmarshal(body, &replyEnvelope)

	// 7. Fetch the run audit trail
	if replyEnvelope.Data.RunId != "" {
		color.Yellow("\n7. Show Run %s", replyEnvelope.Data.RunId)
		resp, body, err = sendRequest("GET", "/reply/v1/runs/"+replyEnvelope.Data.RunId, nil)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		color.Green("Status: %s", resp.Status)
		show(body)
	}

	color.Cyan("\n✅ Smoke test finished")
}
