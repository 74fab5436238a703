package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/voces-project/voces/internal/model"
)

// LoadInterview reads one interview from disk. JSON files are annotated
// interview bundles; HTML files are transcript exports whose turns arrive
// unannotated and need the annotator enabled.
func LoadInterview(path string) (model.Interview, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSONInterview(path)
	case ".html", ".htm":
		return loadHTMLTranscript(path)
	default:
		return model.Interview{}, fmt.Errorf("unsupported interview format: %s", path)
	}
}

// LoadDir loads every interview file in a directory, sorted by filename so
// runs are deterministic
func LoadDir(dir string) ([]model.Interview, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".html", ".htm":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	var interviews []model.Interview
	for _, path := range paths {
		interview, err := LoadInterview(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		interviews = append(interviews, interview)
	}
	return interviews, nil
}

func loadJSONInterview(path string) (model.Interview, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Interview{}, fmt.Errorf("read interview: %w", err)
	}

	var interview model.Interview
	if err := json.Unmarshal(data, &interview); err != nil {
		return model.Interview{}, fmt.Errorf("parse interview: %w", err)
	}
	if interview.ID == "" {
		interview.ID = interviewIDFromPath(path)
	}
	return interview, nil
}

// loadHTMLTranscript extracts visible text from an HTML transcript export and
// splits it into speaker turns. Lines of the form "Speaker: text" start a new
// turn; continuation lines append to the current one.
func loadHTMLTranscript(path string) (model.Interview, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Interview{}, fmt.Errorf("read transcript: %w", err)
	}

	doc, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return model.Interview{}, fmt.Errorf("parse transcript: %w", err)
	}

	interview := model.Interview{ID: interviewIDFromPath(path)}

	var current *model.Turn
	for _, line := range visibleLines(doc) {
		speaker, text, ok := splitSpeakerLine(line)
		if ok {
			if current != nil {
				interview.Turns = append(interview.Turns, *current)
			}
			current = &model.Turn{
				ID:      len(interview.Turns) + 1,
				Speaker: speaker,
				Text:    text,
			}
			continue
		}
		if current != nil {
			current.Text = strings.TrimSpace(current.Text + " " + line)
		}
	}
	if current != nil {
		interview.Turns = append(interview.Turns, *current)
	}

	return interview, nil
}

// visibleLines collects non-empty text lines, skipping script/style content
func visibleLines(n *html.Node) []string {
	var lines []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head":
				return
			}
		}
		if n.Type == html.TextNode {
			for _, line := range strings.Split(n.Data, "\n") {
				if line = strings.TrimSpace(line); line != "" {
					lines = append(lines, line)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return lines
}

// splitSpeakerLine detects "Speaker: text" openings. Speaker labels are short
// and contain no sentence punctuation, which keeps times and clock text from
// being misread as speakers.
func splitSpeakerLine(line string) (speaker, text string, ok bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 || idx > 40 {
		return "", "", false
	}
	speaker = strings.TrimSpace(line[:idx])
	if speaker == "" || strings.ContainsAny(speaker, ".!?0123456789") {
		return "", "", false
	}
	text = strings.TrimSpace(line[idx+1:])
	if text == "" {
		return "", "", false
	}
	return speaker, text, true
}

func interviewIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
