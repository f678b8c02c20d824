package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/me/schedsim/pkg/model"
)

// edgeMarker separates the parent and child tokens of a dependency edge.
const edgeMarker = "->"

// procsDirective introduces the processor-count directive. The original
// format sliced a fixed 7-character prefix off the line; we require the
// delimited form "# procs=<int>" instead and reject anything else.
const procsDirective = "procs="

// Parser converts edge-list scenario text into a rooted task tree.
type Parser struct {
	logger *slog.Logger
}

// New creates a Parser with the given logger.
func New(logger *slog.Logger) *Parser {
	return &Parser{logger: logger.With("component", "parser")}
}

// ParseFile reads and parses the scenario file at path. The file's base name
// becomes the scenario's source identifier.
func (p *Parser) ParseFile(path string) (*model.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return p.Parse(data, filepath.Base(path))
}

// Parse builds a Scenario from line-oriented edge-list text.
//
// Grammar:
//   - "# procs=<int>" sets the processor count (last occurrence wins,
//     default 1).
//   - "Parent_D -> Child_D" declares a dependency edge; the first "_" splits
//     the name from its base-10 duration.
//   - Lines with neither marker are ignored.
//
// Parse fails fast: no partial tree is returned on error. The input must
// describe a single rooted out-tree: exactly one root candidate, one parent
// per node, no duplicate edges, and every node reachable from the root.
func (p *Parser) Parse(data []byte, source string) (*model.Scenario, error) {
	nodes := make(map[string]*model.Task)
	parents := make(map[string]bool)
	children := make(map[string]bool)
	processors := 1

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.Contains(line, edgeMarker):
			if err := p.parseEdge(line, lineNo, nodes, parents, children); err != nil {
				return nil, err
			}
		case strings.Contains(line, "#"):
			n, err := parseProcsDirective(line, lineNo)
			if err != nil {
				return nil, err
			}
			processors = n
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan scenario: %w", err)
	}

	if len(nodes) == 0 {
		return nil, &model.MalformedTreeError{Reason: "input contains no edges"}
	}

	root, err := findRoot(nodes, parents, children)
	if err != nil {
		return nil, err
	}

	if err := checkReachable(root, nodes); err != nil {
		return nil, err
	}

	p.logger.Debug("scenario parsed",
		"source", source, "tasks", len(nodes), "processors", processors)

	return &model.Scenario{
		Source:     source,
		Root:       root,
		Processors: processors,
	}, nil
}

// parseEdge parses one "Parent_D -> Child_D" line and links the two tasks.
func (p *Parser) parseEdge(line string, lineNo int, nodes map[string]*model.Task, parents, children map[string]bool) error {
	parentRaw, childRaw, _ := strings.Cut(line, edgeMarker)
	childRaw = strings.TrimSpace(childRaw)
	parentRaw = strings.TrimSpace(parentRaw)
	if strings.Contains(childRaw, edgeMarker) {
		return &model.ParseError{Line: lineNo, Text: line,
			Reason: "edge must have exactly one parent and one child"}
	}

	parent, err := p.task(parentRaw, lineNo, nodes)
	if err != nil {
		return err
	}
	child, err := p.task(childRaw, lineNo, nodes)
	if err != nil {
		return err
	}
	if parent == child {
		return &model.MalformedTreeError{
			Reason: fmt.Sprintf("line %d: task %s depends on itself", lineNo, parent.Name)}
	}

	if child.Parent != nil {
		if child.Parent == parent {
			return &model.MalformedTreeError{
				Reason: fmt.Sprintf("line %d: duplicate edge %s -> %s", lineNo, parent.Name, child.Name)}
		}
		return &model.MalformedTreeError{
			Reason: fmt.Sprintf("line %d: task %s already has parent %s", lineNo, child.Name, child.Parent.Name)}
	}

	parent.Children = append(parent.Children, child)
	child.Parent = parent
	parents[parentRaw] = true
	children[childRaw] = true
	return nil
}

// task returns the node for a raw "Name_Duration" token, creating it on
// first sight. The raw token is the identity key, so re-encountering the
// same token reuses the existing node.
func (p *Parser) task(raw string, lineNo int, nodes map[string]*model.Task) (*model.Task, error) {
	if t, ok := nodes[raw]; ok {
		return t, nil
	}

	name, durStr, ok := strings.Cut(raw, "_")
	if !ok || name == "" || durStr == "" {
		return nil, &model.ParseError{Line: lineNo, Text: raw,
			Reason: "token must have the form Name_Duration"}
	}
	duration, err := strconv.Atoi(durStr)
	if err != nil {
		return nil, &model.ParseError{Line: lineNo, Text: raw,
			Reason: "duration is not a valid integer"}
	}
	if duration < 0 {
		return nil, &model.ParseError{Line: lineNo, Text: raw,
			Reason: "duration must be non-negative"}
	}

	t := model.NewTask(name, duration)
	nodes[raw] = t
	return t, nil
}

// parseProcsDirective parses a "# procs=<int>" line.
func parseProcsDirective(line string, lineNo int) (int, error) {
	rest := strings.TrimSpace(line[strings.Index(line, "#")+1:])
	if !strings.HasPrefix(rest, procsDirective) {
		return 0, &model.ParseError{Line: lineNo, Text: line,
			Reason: "directive must have the form '# procs=<int>'"}
	}
	n, err := strconv.Atoi(strings.TrimSpace(rest[len(procsDirective):]))
	if err != nil {
		return 0, &model.ParseError{Line: lineNo, Text: line,
			Reason: "processor count is not a valid integer"}
	}
	if n < 1 {
		return 0, &model.InvalidConfigurationError{
			Reason: fmt.Sprintf("line %d: processor count must be at least 1, got %d", lineNo, n)}
	}
	return n, nil
}

// findRoot determines the unique root: the token that appears as a parent
// but never as a child. Zero or multiple candidates mean the input is not a
// single rooted tree.
func findRoot(nodes map[string]*model.Task, parents, children map[string]bool) (*model.Task, error) {
	var candidates []string
	for tok := range parents {
		if !children[tok] {
			candidates = append(candidates, tok)
		}
	}
	sort.Strings(candidates)

	switch len(candidates) {
	case 1:
		return nodes[candidates[0]], nil
	case 0:
		return nil, &model.MalformedTreeError{Reason: "no root candidate (every task is someone's child)"}
	default:
		return nil, &model.MalformedTreeError{
			Reason: "ambiguous root, candidates: " + strings.Join(candidates, ", ")}
	}
}

// checkReachable verifies every parsed node is reachable from the root,
// catching disconnected fragments and off-tree cycles.
func checkReachable(root *model.Task, nodes map[string]*model.Task) error {
	reachable := make(map[*model.Task]bool, len(nodes))
	root.Walk(func(t *model.Task) { reachable[t] = true })

	if len(reachable) == len(nodes) {
		return nil
	}

	var missing []string
	for _, t := range nodes {
		if !reachable[t] {
			missing = append(missing, t.Name)
		}
	}
	sort.Strings(missing)
	return &model.MalformedTreeError{
		Reason: "tasks unreachable from root " + root.Name + ": " + strings.Join(missing, ", ")}
}
