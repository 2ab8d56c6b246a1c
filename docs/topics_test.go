package docs

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/etnz/tradelog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md loads, and every .md file is listed.
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			listed = append(listed, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range listed {
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := Topic(topic); err != nil {
				t.Errorf("failed to get topic %q: %v", topic, err)
			}
		})
	}

	all, err := All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	for _, topic := range all {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
}

func TestTopicsStar(t *testing.T) {
	got, err := Topics("*")
	if err != nil {
		t.Fatalf("Topics(*) error = %v", err)
	}
	for _, title := range []string{"# Transactions", "# Ledger", "# Episodes", "# Rolls"} {
		if !strings.Contains(got, title) {
			t.Errorf("Topics(*) is missing %q", title)
		}
	}
	if _, err := Topic("unknown"); err == nil {
		t.Error("Topic(unknown) succeeded, want error")
	}
}

// jsonBlocks returns the content of the json fenced code blocks of a markdown file.
func jsonBlocks(t *testing.T, file string) []string {
	t.Helper()
	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}
	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	var blocks []string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok || string(fcb.Language(content)) != "json" {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			b.Write(line.Value(content))
		}
		blocks = append(blocks, b.String())
		return ast.WalkContinue, nil
	})
	return blocks
}

func TestExamplesDecode(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		for i, block := range jsonBlocks(t, file) {
			r := bytes.NewReader([]byte(block))
			// Opening balances and transactions are told apart by their first key.
			if strings.HasPrefix(block, `{"account"`) {
				if _, err := tradelog.DecodeOpeningBalances(r); err != nil {
					t.Errorf("%s: block %d: %v", file, i, err)
				}
				continue
			}
			txs, err := tradelog.DecodeTransactions(r)
			if err != nil {
				t.Errorf("%s: block %d: %v", file, i, err)
				continue
			}
			if err := tradelog.Validate(txs, nil); err != nil {
				t.Errorf("%s: block %d: %v", file, i, err)
			}
		}
	}
}
