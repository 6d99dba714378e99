package app

import (
	"path/filepath"
	"slices"
	"sync"

	"github.com/dshills/cubicfold/internal/engine"
)

// ScratchName names documents opened from a string without a name.
const ScratchName = "Untitled"

// Document is one open text and its fold state.
type Document struct {
	Path   string // absolute; empty for scratch documents
	Name   string // base name or the scratch name
	Engine *engine.Engine
}

// NewScratchDocument returns a document that is not backed by a file.
func NewScratchDocument(name, text string, opts ...engine.Option) *Document {
	if name == "" {
		name = ScratchName
	}
	return &Document{Name: name, Engine: engine.NewFromString(text, opts...)}
}

// IsScratch reports whether the document has no file.
func (d *Document) IsScratch() bool { return d.Path == "" }

// Content returns the document text.
func (d *Document) Content() string { return d.Engine.Text() }

// Reload re-reads the file. It is a no-op for scratch documents.
func (d *Document) Reload() error {
	if d.IsScratch() {
		return nil
	}
	if err := d.Engine.ReloadFile(); err != nil {
		return NewOpError("reload", d.Path, err)
	}
	return nil
}

// DocumentManager keeps the open documents in open order and tracks which
// one is active. Opening a document makes it active.
type DocumentManager struct {
	mu     sync.RWMutex
	docs   []*Document
	active *Document
	opts   []engine.Option
}

// NewDocumentManager returns an empty manager. opts apply to every engine
// it creates.
func NewDocumentManager(opts ...engine.Option) *DocumentManager {
	return &DocumentManager{opts: opts}
}

// Open activates the document for path, reading the file unless it is
// already open.
func (dm *DocumentManager) Open(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, NewOpError("open", path, err)
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()

	if doc := dm.find(abs); doc != nil {
		dm.active = doc
		return doc, nil
	}
	eng, err := engine.Open(abs, dm.opts...)
	if err != nil {
		return nil, NewOpError("open", abs, err)
	}
	doc := &Document{Path: abs, Name: filepath.Base(abs), Engine: eng}
	dm.push(doc)
	return doc, nil
}

// OpenString activates a new scratch document holding text.
func (dm *DocumentManager) OpenString(name, text string) *Document {
	doc := NewScratchDocument(name, text, dm.opts...)
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.push(doc)
	return doc
}

func (dm *DocumentManager) push(doc *Document) {
	dm.docs = append(dm.docs, doc)
	dm.active = doc
}

// find returns the file document at abs. Callers hold the lock.
func (dm *DocumentManager) find(abs string) *Document {
	i := slices.IndexFunc(dm.docs, func(d *Document) bool { return !d.IsScratch() && d.Path == abs })
	if i < 0 {
		return nil
	}
	return dm.docs[i]
}

// Close forgets doc. When doc was active, the most recently opened
// remaining document takes over.
func (dm *DocumentManager) Close(doc *Document) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	i := slices.Index(dm.docs, doc)
	if i < 0 {
		return ErrDocumentNotFound
	}
	dm.docs = slices.Delete(dm.docs, i, i+1)
	if dm.active == doc {
		dm.active = nil
		if n := len(dm.docs); n > 0 {
			dm.active = dm.docs[n-1]
		}
	}
	return nil
}

// Active returns the active document, or nil.
func (dm *DocumentManager) Active() *Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.active
}

// SetActiveByPath activates the open document for path.
func (dm *DocumentManager) SetActiveByPath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dm.mu.Lock()
	defer dm.mu.Unlock()
	doc := dm.find(abs)
	if doc == nil {
		return ErrDocumentNotFound
	}
	dm.active = doc
	return nil
}

// Get returns the open document for path.
func (dm *DocumentManager) Get(path string) (*Document, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	doc := dm.find(abs)
	return doc, doc != nil
}

// All returns the open documents in open order.
func (dm *DocumentManager) All() []*Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return slices.Clone(dm.docs)
}

// Count returns how many documents are open.
func (dm *DocumentManager) Count() int {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return len(dm.docs)
}
