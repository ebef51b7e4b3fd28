package scanner

import (
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var inputStrings = []string{
	"1",
	"1+12",
	"Hello #World",
	`x="mystring" // commented `,
	"1,22,333",
}

var tokenCounts = []int{1, 3, 3, 3, 5}

func TestScan1(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.scanner")
	defer teardown()
	//
	for i, input := range inputStrings {
		t.Logf("------+-----------------+--------")
		reader := strings.NewReader(input)
		name := fmt.Sprintf("input #%d", i)
		scanner := GoTokenizer(name, reader)
		token := scanner.NextToken()
		count := 0
		for token.TokType() != EOF {
			t.Logf(" %4d | %15s | @%5d", token.TokType(), token.Lexeme(), token.Span().From())
			token = scanner.NextToken()
			count++
		}
		if count != tokenCounts[i] {
			t.Errorf("Expected token count for #%d to be %d, is %d", i, tokenCounts[i], count)
		}
	}
	t.Logf("------+-----------------+--------")
}

func TestPeek(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.scanner")
	defer teardown()
	//
	reader := strings.NewReader("a + b")
	scanner := GoTokenizer("peek", reader)
	peeked := scanner.Peek()
	if peeked.TokType() != Ident || peeked.Lexeme() != "a" {
		t.Fatalf("expected to peek 'a', got %q", peeked.Lexeme())
	}
	if again := scanner.Peek(); again.Lexeme() != "a" {
		t.Errorf("expected repeated peek not to advance, got %q", again.Lexeme())
	}
	next := scanner.NextToken()
	if next.Lexeme() != "a" {
		t.Errorf("expected NextToken to return the peeked token, got %q", next.Lexeme())
	}
	if next = scanner.NextToken(); next.TokType() != '+' {
		t.Errorf("expected '+' after 'a', got %q", next.Lexeme())
	}
}

func TestSkipComments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.scanner")
	defer teardown()
	//
	input := "x // note"
	countTokens := func(sc *DefaultTokenizer) (n int, comments int) {
		for tok := sc.NextToken(); tok.TokType() != EOF; tok = sc.NextToken() {
			n++
			if tok.TokType() == Comment {
				comments++
			}
		}
		return n, comments
	}
	// comments are skipped by default…
	n, comments := countTokens(GoTokenizer("skip", strings.NewReader(input)))
	if n != 1 || comments != 0 {
		t.Errorf("expected the comment to be skipped, got %d tokens (%d comments)", n, comments)
	}
	// …SkipComments(false) delivers them
	n, comments = countTokens(GoTokenizer("keep", strings.NewReader(input), SkipComments(false)))
	if n != 2 || comments != 1 {
		t.Errorf("expected a comment token to be delivered, got %d tokens (%d comments)", n, comments)
	}
}

func TestPosition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsegen.scanner")
	defer teardown()
	//
	reader := strings.NewReader("a\n  b")
	scanner := GoTokenizer("pos", reader)
	scanner.NextToken() // a
	if scanner.Line() != 1 || scanner.Col() != 1 {
		t.Errorf("expected 'a' at 1:1, got %d:%d", scanner.Line(), scanner.Col())
	}
	scanner.Peek() // peeking must not move the reported position
	if scanner.Line() != 1 {
		t.Errorf("expected position to stay at line 1 after peek, got %d", scanner.Line())
	}
	scanner.NextToken() // b
	if scanner.Line() != 2 || scanner.Col() != 3 {
		t.Errorf("expected 'b' at 2:3, got %d:%d", scanner.Line(), scanner.Col())
	}
}
