// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package xpctx

import (
	"database/sql"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mdhenderson/xpath/internal/treestore"
)

// DocumentCache memoizes fn:doc/fn:unparsed-text resource fetches
// (SPEC_FULL.md §7: "a DocumentCache backed by modernc.org/sqlite").
// Parsed Tree values can't be marshaled into a relational column, so only
// fn:unparsed-text results are persisted there, keyed by (uri, encoding),
// and survive across processes that share a cache file; parsed
// Tree/root-Node pairs from fn:doc are kept only in the in-memory map,
// keyed by uri, so a new process fetches each document through the
// Resolver again.
type DocumentCache struct {
	db *sql.DB

	mu    sync.Mutex
	trees map[string]cachedTree
}

type cachedTree struct {
	tree treestore.Tree
	root treestore.Node
}

// OpenDocumentCache opens (creating if absent) a sqlite database at path
// to back the resource-text cache. path == ":memory:" gives a
// process-local cache with no on-disk footprint.
func OpenDocumentCache(path string) (*DocumentCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	const ddl = `CREATE TABLE IF NOT EXISTS resources (
		uri TEXT NOT NULL,
		encoding TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		PRIMARY KEY (uri, encoding)
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, err
	}
	return &DocumentCache{db: db, trees: map[string]cachedTree{}}, nil
}

func (c *DocumentCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// FetchText returns the cached text for (uri, encoding), fetching and
// storing it via resolver on a cache miss.
func (c *DocumentCache) FetchText(resolver treestore.Resolver, uri, encoding string) (string, error) {
	row := c.db.QueryRow(`SELECT content FROM resources WHERE uri = ? AND encoding = ?`, uri, encoding)
	var content string
	if err := row.Scan(&content); err == nil {
		return content, nil
	}
	content, err := resolver.FetchText(uri, encoding)
	if err != nil {
		return "", err
	}
	_, err = c.db.Exec(`INSERT OR REPLACE INTO resources (uri, encoding, content) VALUES (?, ?, ?)`, uri, encoding, content)
	return content, err
}

// FetchDocument returns the parsed (Tree, root Node) for uri, from the
// in-process tree cache on a hit or via resolver on a miss.
func (c *DocumentCache) FetchDocument(resolver treestore.Resolver, uri string) (treestore.Tree, treestore.Node, error) {
	c.mu.Lock()
	if ct, ok := c.trees[uri]; ok {
		c.mu.Unlock()
		return ct.tree, ct.root, nil
	}
	c.mu.Unlock()

	tree, root, err := resolver.FetchDocument(uri)
	if err != nil {
		return nil, nil, err
	}
	c.mu.Lock()
	c.trees[uri] = cachedTree{tree: tree, root: root}
	c.mu.Unlock()
	return tree, root, nil
}
