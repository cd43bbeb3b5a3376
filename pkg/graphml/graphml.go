// Package graphml is the GraphML serialization collaborator described
// in spec section 6: it reads and writes the named directed multigraph
// in pkg/graph through that package's facade API only, the same way
// spec section 1 says an external collaborator must.
//
// Two file formats are supported: .graphml (plain UTF-8 XML) and
// .graphmlz (gzip-compressed XML, identical content). Mismatching the
// path's extension against the Compressed flag is a user error
// (ErrUnsupportedFormat), per spec section 6.
//
// Grounded on apoc/xml/xml.go's use of encoding/xml, and on
// pkg/storage/types.go's ToNeo4jExport/FromNeo4jExport pair for the
// "walk the whole graph, build a wire document, and the inverse" shape.
package graphml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/orneryd/pagegraph/pkg/graph"
)

// Save writes g to path in GraphML form. compressed selects .graphmlz
// (gzip) over plain .graphml; it must agree with path's extension.
func Save(g *graph.Graph, path string, compressed bool) error {
	if err := checkExtension(path, compressed); err != nil {
		return err
	}

	doc := buildDocument(g)
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("graphml: encode: %w", err)
	}

	var out bytes.Buffer
	out.WriteString(xml.Header)
	out.Write(body)
	out.WriteByte('\n')

	if !compressed {
		return os.WriteFile(path, out.Bytes(), 0o644)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("graphml: create %s: %w", path, err)
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	if _, err := gw.Write(out.Bytes()); err != nil {
		gw.Close()
		return fmt.Errorf("graphml: compress: %w", err)
	}
	return gw.Close()
}

// Load reads path and returns the graph it describes. compressed
// selects .graphmlz (gzip) over plain .graphml; it must agree with
// path's extension.
func Load(path string, compressed bool) (*graph.Graph, error) {
	if err := checkExtension(path, compressed); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("graphml: read %s: %w", path, err)
	}

	if compressed {
		gr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedGraphML, err)
		}
		defer gr.Close()
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(gr); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedGraphML, err)
		}
		raw = buf.Bytes()
	}

	var doc xmlDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGraphML, err)
	}
	if doc.XMLName.Local != "graphml" || doc.Xmlns != graphmlNamespace {
		return nil, ErrMalformedGraphML
	}

	g, err := parseDocument(&doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGraphML, err)
	}
	return g, nil
}

// checkExtension enforces that path's extension agrees with compressed.
func checkExtension(path string, compressed bool) error {
	switch {
	case compressed && !strings.HasSuffix(path, ".graphmlz"):
		return ErrUnsupportedFormat
	case !compressed && !strings.HasSuffix(path, ".graphml"):
		return ErrUnsupportedFormat
	}
	return nil
}

// keyRegistry assigns synthetic "d0", "d1", ... ids to distinct
// (attr.name, for) pairs in first-encounter order, per spec section 6.
type keyRegistry struct {
	order []xmlKey
	ids   map[string]string
}

func newKeyRegistry() *keyRegistry {
	return &keyRegistry{ids: make(map[string]string)}
}

func (k *keyRegistry) idFor(scope, name string, sample interface{}) string {
	lookup := scope + "\x00" + name
	if id, ok := k.ids[lookup]; ok {
		return id
	}
	id := fmt.Sprintf("d%d", len(k.order))
	k.ids[lookup] = id
	k.order = append(k.order, xmlKey{
		ID: id, For: scope, AttrName: name, AttrType: attrTypeOf(sample),
	})
	return id
}

// buildDocument walks g through its facade API only, in a
// deterministic (sorted) order, and assembles the GraphML document.
func buildDocument(g *graph.Graph) xmlDocument {
	keys := newKeyRegistry()

	names := g.NodeList()
	sort.Strings(names)

	nodes := make([]xmlNode, 0, len(names))
	for _, name := range names {
		handle, err := g.GetNode(name)
		if err != nil {
			continue
		}
		nodes = append(nodes, xmlNode{ID: name, Data: dataFor(keys, "node", handle.Attrs)})
	}

	specs := g.EdgeList()
	sort.Slice(specs, func(i, j int) bool {
		if specs[i].Src != specs[j].Src {
			return specs[i].Src < specs[j].Src
		}
		return specs[i].Dst < specs[j].Dst
	})

	edges := make([]xmlEdge, 0, len(specs))
	for _, spec := range specs {
		handle, err := g.GetEdge(spec.Src, spec.Dst)
		if err != nil {
			continue
		}
		attrs := cloneForExport(handle.Attrs)
		attrs["weight"] = handle.Weight
		edges = append(edges, xmlEdge{
			Source: spec.Src, Target: spec.Dst, Data: dataFor(keys, "edge", attrs),
		})
	}

	return xmlDocument{
		Xmlns: graphmlNamespace,
		Keys:  keys.order,
		Graph: xmlGraph{EdgeDefault: "directed", Nodes: nodes, Edges: edges},
	}
}

func dataFor(keys *keyRegistry, scope string, attrs map[string]interface{}) []xmlData {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	data := make([]xmlData, 0, len(names))
	for _, name := range names {
		id := keys.idFor(scope, name, attrs[name])
		data = append(data, xmlData{Key: id, Value: formatAttr(attrs[name])})
	}
	return data
}

func cloneForExport(attrs map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(attrs)+1)
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

// parseDocument rebuilds a *graph.Graph from a parsed xmlDocument,
// exercising only AddNode/AddEdge on the facade. A document with a
// duplicate node id or an edge naming an already-present pair is
// malformed, not silently mergeable, so either facade error aborts the
// rebuild.
func parseDocument(doc *xmlDocument) (*graph.Graph, error) {
	keyType := make(map[string]string, len(doc.Keys))
	for _, k := range doc.Keys {
		keyType[k.ID] = k.AttrType
	}
	keyName := make(map[string]string, len(doc.Keys))
	for _, k := range doc.Keys {
		keyName[k.ID] = k.AttrName
	}

	g := graph.NewGraph(len(doc.Graph.Nodes))
	for _, n := range doc.Graph.Nodes {
		attrs := make(map[string]interface{}, len(n.Data))
		for _, d := range n.Data {
			attrs[keyName[d.Key]] = parseAttr(keyType[d.Key], d.Value)
		}
		if err := g.AddNode(n.ID, attrs); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
	}
	for _, e := range doc.Graph.Edges {
		attrs := make(map[string]interface{}, len(e.Data))
		for _, d := range e.Data {
			attrs[keyName[d.Key]] = parseAttr(keyType[d.Key], d.Value)
		}
		if err := g.AddEdge(graph.EdgeSpec{Src: e.Source, Dst: e.Target, Attrs: attrs}); err != nil {
			return nil, fmt.Errorf("edge %q->%q: %w", e.Source, e.Target, err)
		}
	}
	return g, nil
}
