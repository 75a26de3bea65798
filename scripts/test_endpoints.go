// +build ignore

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// Ручная дымовая проверка запущенного сервиса: автодополнение станции,
// табло отправлений и поиск поездок. Запуск:
//
//	go run scripts/test_endpoints.go -base http://localhost:8080 -station "Wien Hbf"

func main() {
	baseURL := flag.String("base", "http://localhost:8080", "API base URL")
	station := flag.String("station", "Wien Hbf", "station for the departure board")
	to := flag.String("to", "Salzburg Hbf", "destination for the journey search")
	flag.Parse()

	client := &http.Client{Timeout: 15 * time.Second}

	fmt.Printf("🔎 Station search: %q\n", *station)
	suggestions := getJSON(client, *baseURL+"/api/stations/search?q="+url.QueryEscape(*station))
	printJSON(suggestions)

	fmt.Printf("\n🚆 Departures: %q\n", *station)
	board := getJSON(client, *baseURL+"/api/departures?station="+url.QueryEscape(*station)+"&pageSize=5")
	printJSON(board)

	fmt.Printf("\n🗺  Journeys: %q -> %q\n", *station, *to)
	journeys := getJSON(client, *baseURL+"/api/journeys?from="+url.QueryEscape(*station)+"&to="+url.QueryEscape(*to))
	printJSON(journeys)

	fmt.Println("\n✅ Smoke test finished")
}

func getJSON(client *http.Client, rawURL string) map[string]interface{} {
	resp, err := client.Get(rawURL)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Failed to read response: %v", err)
	}

	fmt.Printf("   HTTP %d (%s)\n", resp.StatusCode, rawURL)

	var decoded map[string]interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		log.Fatalf("Failed to decode response: %v", err)
	}
	return decoded
}

func printJSON(v map[string]interface{}) {
	pretty, _ := json.MarshalIndent(v, "", "  ")
	fmt.Printf("%s\n", pretty)
}
