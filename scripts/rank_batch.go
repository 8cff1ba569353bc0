// rank_batch.go ranks every CSV file in a directory through a running topsisd.
//
// Usage:
//
//	go run scripts/rank_batch.go -dir ./data -weights 1,1,1,1 -impacts -,+,+,+ -api http://localhost:8700
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const resultSuffix = "-result.csv"

func main() {
	dir := flag.String("dir", ".", "directory holding input CSV files")
	apiURL := flag.String("api", "http://localhost:8700", "topsisd API base URL")
	weights := flag.String("weights", "", "comma-separated weights")
	impacts := flag.String("impacts", "", "comma-separated impacts (+ or -)")
	clientID := flag.String("client", "rank-batch", "X-Client-ID header value")
	dryRun := flag.Bool("dry-run", false, "list files without posting")
	flag.Parse()

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("read dir: %v", err)
	}

	var inputs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(name), ".csv") || strings.HasSuffix(name, resultSuffix) {
			continue
		}
		inputs = append(inputs, filepath.Join(*dir, name))
	}
	sort.Strings(inputs)

	log.Printf("found %d input files in %s", len(inputs), *dir)

	if *dryRun {
		for i, path := range inputs {
			fmt.Printf("[%d] %s -> %s\n", i+1, path, resultPath(path))
		}
		return
	}

	q := url.Values{}
	q.Set("weights", *weights)
	q.Set("impacts", *impacts)
	endpoint := strings.TrimRight(*apiURL, "/") + "/api/v1/rank?" + q.Encode()

	client := &http.Client{}
	ranked, skipped := 0, 0
	for _, path := range inputs {
		runID, err := rankFile(client, endpoint, *clientID, path)
		if err != nil {
			log.Printf("skip %s: %v", path, err)
			skipped++
			continue
		}
		log.Printf("ranked %s (run %s)", path, runID)
		ranked++
	}

	log.Printf("done: %d ranked, %d skipped", ranked, skipped)
}

func rankFile(client *http.Client, endpoint, clientID, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	req, err := http.NewRequest("POST", endpoint, f)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("X-Client-ID", clientID)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := os.WriteFile(resultPath(path), body, 0o644); err != nil {
		return "", err
	}
	return resp.Header.Get("X-Run-ID"), nil
}

func resultPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + resultSuffix
}
