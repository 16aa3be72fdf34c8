package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klintqinami/sese-regions/pkg/graph"
)

// loadGraph reads a graph description from a file. YAML and JSON files
// hold an adjacency map {label: {out: [...], in: [...]}}; anything else
// is parsed as an edge list with one "u v" or "u -> v" pair per line.
func loadGraph(path string) (*graph.Graph, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadAdjacencyFile(path, yaml.Unmarshal)
	case ".json":
		return loadAdjacencyFile(path, json.Unmarshal)
	default:
		return loadEdgeList(path)
	}
}

func loadAdjacencyFile(path string, unmarshal func([]byte, interface{}) error) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var adj graph.Adjacency
	if err := unmarshal(data, &adj); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	g, err := graph.FromAdjacency(adj)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func loadEdgeList(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	var edges [][2]string
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		text = strings.ReplaceAll(text, "->", " ")
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%s:%d: expected \"u v\" or \"u -> v\", got %q", path, line, scanner.Text())
		}
		edges = append(edges, [2]string{fields[0], fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	g, err := graph.FromEdges(edges)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
