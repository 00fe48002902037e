// Command skylookctl drives a running skylook service from the terminal.
// Commands are thin wrappers over the /v1 API; state-changing commands are
// asynchronous, so most of them print the resulting state after a short poll.
//
// Usage:
//
//	skylookctl [-addr http://localhost:8080] state
//	skylookctl query "Lon"
//	skylookctl select 0
//	skylookctl city berlin
//	skylookctl coords 48.8566 2.3522
//	skylookctl refresh
//	skylookctl favorites
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rkranes/skylook/internal/domain"
	"github.com/rkranes/skylook/internal/orchestrator"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "base URL of the skylook service")
	wait := flag.Duration("wait", 3*time.Second, "how long to poll for a settled state after a command")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	c := &client{base: *addr, wait: *wait, http: &http.Client{Timeout: 10 * time.Second}}
	if err := c.run(flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "skylookctl: %v\n", err)
		os.Exit(1)
	}
}

type client struct {
	base string
	wait time.Duration
	http *http.Client
}

func (c *client) run(cmd string, args []string) error {
	switch cmd {
	case "state":
		return c.printState()
	case "query":
		if len(args) != 1 {
			return fmt.Errorf("usage: query <text>")
		}
		if err := c.send(http.MethodPut, "/v1/query", map[string]string{"query": args[0]}); err != nil {
			return err
		}
		return c.printSettled(func(s orchestrator.State) bool { return len(s.Suggestions) > 0 })
	case "search-start":
		return c.send(http.MethodPost, "/v1/search/start", nil)
	case "search-stop":
		return c.send(http.MethodPost, "/v1/search/stop", nil)
	case "select":
		if len(args) != 1 {
			return fmt.Errorf("usage: select <suggestion-index>")
		}
		return c.selectSuggestion(args[0])
	case "city":
		if len(args) != 1 {
			return fmt.Errorf("usage: city <name>")
		}
		if err := c.send(http.MethodPost, "/v1/load/city", map[string]string{"city": args[0]}); err != nil {
			return err
		}
		return c.printSettled(settled)
	case "coords":
		if len(args) != 2 {
			return fmt.Errorf("usage: coords <latitude> <longitude>")
		}
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q", args[0])
		}
		lon, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q", args[1])
		}
		body := map[string]float64{"latitude": lat, "longitude": lon}
		if err := c.send(http.MethodPost, "/v1/load/coordinates", body); err != nil {
			return err
		}
		return c.printSettled(settled)
	case "refresh":
		if err := c.send(http.MethodPost, "/v1/refresh", nil); err != nil {
			return err
		}
		return c.printSettled(settled)
	case "favorites":
		return c.printJSON("/v1/favorites")
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// settled reports whether a weather load has finished, one way or the other.
func settled(s orchestrator.State) bool {
	return !s.Loading && (s.Snapshot != nil || s.Err != "")
}

func (c *client) selectSuggestion(arg string) error {
	idx, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("invalid suggestion index %q", arg)
	}
	state, err := c.fetchState()
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(state.Suggestions) {
		return fmt.Errorf("suggestion index %d out of range (have %d)", idx, len(state.Suggestions))
	}
	if err := c.send(http.MethodPost, "/v1/suggestions/select", state.Suggestions[idx]); err != nil {
		return err
	}
	return c.printSettled(settled)
}

func (c *client) send(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, bytes.TrimSpace(msg))
	}
	return nil
}

func (c *client) fetchState() (orchestrator.State, error) {
	var state orchestrator.State
	resp, err := c.http.Get(c.base + "/v1/state")
	if err != nil {
		return state, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return state, fmt.Errorf("GET /v1/state: %s", resp.Status)
	}
	return state, json.NewDecoder(resp.Body).Decode(&state)
}

// printSettled polls until cond holds or the wait budget runs out, then
// prints whatever state it last saw.
func (c *client) printSettled(cond func(orchestrator.State) bool) error {
	deadline := time.Now().Add(c.wait)
	var state orchestrator.State
	for {
		var err error
		state, err = c.fetchState()
		if err != nil {
			return err
		}
		if cond(state) || time.Now().After(deadline) {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	printState(state)
	return nil
}

func (c *client) printState() error {
	state, err := c.fetchState()
	if err != nil {
		return err
	}
	printState(state)
	return nil
}

func (c *client) printJSON(path string) error {
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	var v any
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func printState(s orchestrator.State) {
	if s.Err != "" {
		fmt.Printf("error: %s\n", s.Err)
		return
	}
	if title := s.Title.Display("en"); title != "" {
		fmt.Println(title)
	}
	if len(s.Suggestions) > 0 {
		for i, p := range s.Suggestions {
			fmt.Printf("  [%d] %s (%.4f, %.4f)\n", i, p.Name, p.Latitude, p.Longitude)
		}
		return
	}
	if s.Snapshot == nil {
		fmt.Println("no weather loaded")
		return
	}
	snap := s.Snapshot
	desc := domain.DescribeWeatherCode(snap.Code, "en")
	suffix := ""
	if s.CachedFallback {
		suffix = " (cached)"
	}
	fmt.Printf("%.1f°C  %s%s\n", snap.TemperatureC, desc, suffix)
	for _, d := range snap.Daily {
		fmt.Printf("  %s  %5.1f / %5.1f  %s\n", d.Date, d.TempMaxC, d.TempMinC, domain.DescribeWeatherCode(d.Code, "en"))
	}
}
