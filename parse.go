package main

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	errInvalidInput       = errors.New("unable to parse JSON")
	errMissingProfileData = errors.New("data does not contain profile info")
)

// ---------------------------------------------------------------------------
// Data model
// ---------------------------------------------------------------------------

type timingNode struct {
	name         string // "type" if present, else "name"
	elapsedNanos int64
	description  string
	breakdown    *orderedmap.OrderedMap[string, int64] // nil if absent
	children     []*timingNode
}

type searchProfile struct {
	query        []*timingNode
	rewriteNanos int64
	hasRewrite   bool
	collector    []*timingNode
	otherAttrs   int
}

type shardProfile struct {
	id           string
	searches     []*searchProfile
	aggregations []*timingNode
	otherAttrs   int // attributes besides searches and aggregations, id included
}

// attrCount mirrors the number of keys the shard object would carry.
func (s *shardProfile) attrCount() int {
	n := s.otherAttrs
	if len(s.searches) > 0 {
		n++
	}
	if len(s.aggregations) > 0 {
		n++
	}
	return n
}

func (s *searchProfile) empty() bool {
	return len(s.query) == 0 && !s.hasRewrite && len(s.collector) == 0 && s.otherAttrs == 0
}

type profileDocument struct {
	took        string
	shardsTotal string
	hitsTotal   string
	hasProfile  bool
	shards      []*shardProfile
}

// ---------------------------------------------------------------------------
// Input
// ---------------------------------------------------------------------------

// openReader opens a file for reading, handling gzip and stdin ("-" or "").
func openReader(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return &gzipReadCloser{gz: gr, f: f}, nil
	}
	return f, nil
}

type gzipReadCloser struct {
	gz *gzip.Reader
	f  *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }
func (g *gzipReadCloser) Close() error {
	g.gz.Close()
	return g.f.Close()
}

func openDocument(path string, log zerolog.Logger) (*profileDocument, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	source := path
	if source == "" || source == "-" {
		source = "stdin"
	}
	log.Debug().Str("source", source).Int("bytes", len(data)).Msg("read profile input")

	doc, err := decodeDocument(data, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return doc, nil
}

// ---------------------------------------------------------------------------
// JSON → profileDocument
// ---------------------------------------------------------------------------

func decodeDocument(data []byte, log zerolog.Logger) (*profileDocument, error) {
	if !gjson.ValidBytes(data) {
		return nil, errInvalidInput
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top-level value is not an object", errInvalidInput)
	}

	doc := &profileDocument{
		took:        summaryValue(root.Get("took")),
		shardsTotal: summaryValue(root.Get("_shards.total")),
		hitsTotal:   summaryValue(root.Get("hits.total")),
	}

	shards := root.Get("profile.shards")
	if !shards.Exists() || !shards.IsArray() {
		return doc, nil
	}
	doc.hasProfile = true
	for _, s := range shards.Array() {
		doc.shards = append(doc.shards, decodeShard(s, log))
	}
	log.Debug().Int("shards", len(doc.shards)).Msg("decoded profile")
	return doc, nil
}

// summaryValue renders a summary field. Newer responses report hits.total
// as {"value": N, "relation": "eq"}.
func summaryValue(r gjson.Result) string {
	if r.IsObject() {
		r = r.Get("value")
	}
	if !r.Exists() || r.Type == gjson.Null {
		return "unknown"
	}
	return r.String()
}

func decodeShard(r gjson.Result, log zerolog.Logger) *shardProfile {
	sh := &shardProfile{id: r.Get("id").String()}
	r.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case "searches":
			for _, s := range value.Array() {
				sh.searches = append(sh.searches, decodeSearch(s, log))
			}
		case "aggregations":
			sh.aggregations = decodeForest(value, log)
		default:
			sh.otherAttrs++
		}
		return true
	})
	return sh
}

func decodeSearch(r gjson.Result, log zerolog.Logger) *searchProfile {
	sp := &searchProfile{}
	r.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case "query":
			sp.query = decodeForest(value, log)
		case "collector":
			sp.collector = decodeForest(value, log)
		case "rewrite_time":
			sp.rewriteNanos = value.Int()
			sp.hasRewrite = true
		default:
			sp.otherAttrs++
		}
		return true
	})
	return sp
}

func decodeForest(r gjson.Result, log zerolog.Logger) []*timingNode {
	var out []*timingNode
	for _, n := range r.Array() {
		out = append(out, decodeNode(n, log))
	}
	return out
}

// decodeNode decodes a timing tree. Children are decoded with an explicit
// stack so that deeply nested profiles cannot exhaust the goroutine stack.
func decodeNode(r gjson.Result, log zerolog.Logger) *timingNode {
	root := decodeFields(r, log)

	type pending struct {
		src  gjson.Result
		node *timingNode
	}
	stack := []pending{{r, root}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range cur.src.Get("children").Array() {
			child := decodeFields(c, log)
			cur.node.children = append(cur.node.children, child)
			stack = append(stack, pending{c, child})
		}
	}
	return root
}

// decodeFields decodes everything but the children of one node. Missing
// fields fall back to zero values.
func decodeFields(r gjson.Result, log zerolog.Logger) *timingNode {
	n := &timingNode{
		description: r.Get("description").String(),
	}
	if t := r.Get("type"); t.Exists() {
		n.name = t.String()
	} else {
		n.name = r.Get("name").String()
	}

	if t := r.Get("time_in_nanos"); t.Exists() {
		n.elapsedNanos = t.Int()
	} else {
		log.Debug().Str("node", n.name).Msg("node has no time_in_nanos, using 0")
	}
	if n.elapsedNanos < 0 {
		n.elapsedNanos = 0
	}

	if b := r.Get("breakdown"); b.IsObject() {
		n.breakdown = orderedmap.New[string, int64]()
		b.ForEach(func(key, value gjson.Result) bool {
			n.breakdown.Set(key.String(), value.Int())
			return true
		})
	}
	return n
}
