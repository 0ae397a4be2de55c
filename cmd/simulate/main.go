package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

// Simplified DTOs for the script
type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type prompt struct {
	Field string `json:"field"`
	Label string `json:"label"`
}

type warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

type stepResult struct {
	Id        string    `json:"id"`
	SessionId string    `json:"session_id"`
	Step      int       `json:"step"`
	StepName  string    `json:"step_name"`
	Prompts   []prompt  `json:"prompts"`
	Warnings  []warning `json:"warnings"`
	Advice    *struct {
		Text     string `json:"text"`
		Fallback bool   `json:"fallback"`
	} `json:"advice"`
	Facilities *struct {
		Outcome    string   `json:"outcome"`
		Facilities []string `json:"facilities"`
		Message    string   `json:"message"`
	} `json:"facilities"`
}

type client struct {
	baseURL string
	http    *http.Client
}

func main() {
	baseURL := flag.String("url", "http://localhost:3000/api/intake/v1", "intake API base URL")
	complaint := flag.String("complaint", "I have had a throbbing headache", "primary complaint")
	answer := flag.String("answer", "Yes, it gets worse in bright light", "answer given to every follow-up question")
	duration := flag.String("duration", "2 days", "symptom duration")
	severity := flag.Int("severity", 6, "severity 1-10")
	location := flag.String("location", "Boston, MA", "location for the facility lookup")
	flag.Parse()

	c := &client{baseURL: *baseURL, http: &http.Client{Timeout: 2 * time.Minute}}

	color.Cyan("=== Symptom Intake Simulation ===")

	session, err := c.call("POST", "/sessions", nil)
	if err != nil {
		color.Red("Failed to create session: %v", err)
		os.Exit(1)
	}
	id := session.Id
	color.Green("Session created: %s", id)

	res, err := c.advance(id, map[string]interface{}{"complaint": *complaint})
	if err != nil {
		color.Red("Complaint step failed: %v", err)
		os.Exit(1)
	}

	for res.Step == 2 && len(res.Warnings) == 0 {
		res, err = c.advance(id, map[string]interface{}{"answer": *answer})
		if err != nil {
			color.Red("Follow-up step failed: %v", err)
			os.Exit(1)
		}
	}

	if res.Step == 3 {
		res, err = c.advance(id, map[string]interface{}{
			"duration": *duration,
			"severity": *severity,
			"location": *location,
		})
		if err != nil {
			color.Red("Details step failed: %v", err)
			os.Exit(1)
		}
	}

	if res.Step != 4 {
		color.Yellow("Dialogue stopped at step %d (%s)", res.Step, res.StepName)
		os.Exit(2)
	}

	color.Cyan("\n=== Results ===")
	if res.Advice != nil {
		if res.Advice.Fallback {
			color.Yellow("Advice (fallback): %s", res.Advice.Text)
		} else {
			color.Green("Advice:\n%s", res.Advice.Text)
		}
	}
	if res.Facilities != nil {
		if len(res.Facilities.Facilities) == 0 {
			color.Yellow("Facilities: %s", res.Facilities.Message)
		}
		for i, name := range res.Facilities.Facilities {
			color.Green("%d. %s", i+1, name)
		}
	}
}

func (c *client) advance(id string, body map[string]interface{}) (*stepResult, error) {
	fmt.Printf("\nUSER: %v\n", body)

	start := time.Now()
	res, err := c.call("POST", "/sessions/"+id+"/advance", body)
	if err != nil {
		return nil, err
	}

	color.Blue("STEP %d %s (%v)", res.Step, res.StepName, time.Since(start).Round(time.Millisecond))
	for _, w := range res.Warnings {
		color.Yellow("  warning [%s/%s]: %s", w.Field, w.Kind, w.Message)
	}
	for _, p := range res.Prompts {
		fmt.Printf("  prompt %s: %s\n", p.Field, p.Label)
	}
	return res, nil
}

func (c *client) call(method, path string, body interface{}) (*stepResult, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API Error %d: %s", resp.StatusCode, string(raw))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	var res stepResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
