// Smoke test for the reader API. Run with a server already listening:
//
//	go run scripts/smoke_api.go path/to/some.pdf
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:8000/api"

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func prettyPrint(raw json.RawMessage) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func sendRequest(method, url string, body interface{}) (*http.Response, *envelope, error) {
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

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return resp, nil, fmt.Errorf("non-envelope response: %s", string(respBody))
	}
	return resp, &env, nil
}

func uploadPaper(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	writer.Close()

	resp, err := http.Post(baseURL+"/paper/v1", writer.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("upload failed (%s): %s", resp.Status, string(body))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", err
	}
	var paper struct {
		Id string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &paper); err != nil {
		return "", err
	}
	prettyPrint(env.Data)
	return paper.Id, nil
}

func main() {
	if len(os.Args) < 2 {
		color.Red("usage: go run scripts/smoke_api.go <pdf-file>")
		os.Exit(1)
	}
	pdfPath := os.Args[1]

	color.Cyan("Starting reader API smoke test\n")

	// 1. Health
	color.Yellow("\n1. Health check")
	resp, env, err := sendRequest("GET", "/health/v1/ready", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	// 2. Upload
	color.Yellow("\n2. Upload paper")
	paperId, err := uploadPaper(pdfPath)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Uploaded paper %s", paperId)

	// 3. List papers
	color.Yellow("\n3. List papers")
	resp, env, err = sendRequest("GET", "/paper/v1", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(env.Data)

	// 4. Open reader view
	color.Yellow("\n4. Open reader view")
	resp, env, err = sendRequest("POST", "/reader/v1/"+paperId+"/open", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(env.Data)

	// 5. Add a highlight, undo, redo
	color.Yellow("\n5. Highlight round-trip")
	highlightReq := map[string]interface{}{
		"page":  1,
		"text":  "smoke test highlight",
		"color": "#ffff00",
		"position": map[string]float64{
			"x": 72, "y": 144, "width": 300, "height": 14,
		},
	}
	if _, env, err = sendRequest("POST", "/reader/v1/"+paperId+"/highlight", highlightReq); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	prettyPrint(env.Data)
	if _, env, err = sendRequest("POST", "/reader/v1/"+paperId+"/highlight/undo", nil); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if _, env, err = sendRequest("POST", "/reader/v1/"+paperId+"/highlight/redo", nil); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Highlight undo/redo OK")

	// 6. Notes: edit then manual save
	color.Yellow("\n6. Note autosave flow")
	if _, _, err = sendRequest("PUT", "/reader/v1/"+paperId+"/note", map[string]string{"content": "draft from smoke test"}); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if _, env, err = sendRequest("POST", "/reader/v1/"+paperId+"/note/save", map[string]string{"content": "final from smoke test"}); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	prettyPrint(env.Data)

	// 7. Chat about the paper
	color.Yellow("\n7. Chat ask (requires a reachable LLM provider)")
	resp, env, err = sendRequest("POST", "/chat/v1/"+paperId+"/ask", map[string]interface{}{
		"message":     "What is this paper about?",
		"use_context": true,
	})
	if err != nil {
		color.Red("Failed: %v", err)
	} else if !env.Success {
		color.Red("Chat error (%s): %s", resp.Status, env.Message)
	} else {
		prettyPrint(env.Data)
	}

	// 8. Cleanup
	color.Yellow("\n8. Delete paper")
	if _, _, err = sendRequest("DELETE", "/paper/v1/"+paperId, nil); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("\nSmoke test finished")
}
