// Package search keeps an in-memory full-text index over the lawyer
// directory so free-text queries rank by relevance rather than LIKE order.
package search

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
)

type lawyerDoc struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Languages      string `json:"languages"`
}

type LawyerIndex struct {
	mu    sync.RWMutex
	index bleve.Index
}

func NewLawyerIndex() (*LawyerIndex, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create lawyer index failed: %w", err)
	}
	return &LawyerIndex{index: idx}, nil
}

// Rebuild replaces the index contents with lawyers.
func (l *LawyerIndex) Rebuild(lawyers []model.Lawyer) error {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return fmt.Errorf("create lawyer index failed: %w", err)
	}
	batch := idx.NewBatch()
	for i := range lawyers {
		if err := batch.Index(docID(lawyers[i].ID), toDoc(&lawyers[i])); err != nil {
			return fmt.Errorf("index lawyer %d failed: %w", lawyers[i].ID, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		return fmt.Errorf("commit lawyer index failed: %w", err)
	}

	l.mu.Lock()
	old := l.index
	l.index = idx
	l.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

func (l *LawyerIndex) Put(lawyer *model.Lawyer) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if err := l.index.Index(docID(lawyer.ID), toDoc(lawyer)); err != nil {
		return fmt.Errorf("index lawyer failed: %w", err)
	}
	return nil
}

func (l *LawyerIndex) Remove(id uint) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if err := l.index.Delete(docID(id)); err != nil {
		return fmt.Errorf("remove lawyer from index failed: %w", err)
	}
	return nil
}

// Search returns matching lawyer ids, best match first. Terms are matched
// with edit distance 1 so small typos still hit.
func (l *LawyerIndex) Search(q string, limit int) ([]uint, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}

	match := bleve.NewMatchQuery(q)
	match.SetFuzziness(1)
	prefix := bleve.NewPrefixQuery(strings.ToLower(q))
	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(match, prefix))
	req.Size = limit

	l.mu.RLock()
	res, err := l.index.Search(req)
	l.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("search lawyers failed: %w", err)
	}

	ids := make([]uint, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func (l *LawyerIndex) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.index.Close()
}

func docID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func toDoc(l *model.Lawyer) lawyerDoc {
	langs := make([]string, 0, len(l.Languages))
	for _, lang := range l.Languages {
		langs = append(langs, lang.Name)
	}
	return lawyerDoc{
		Name:           l.Name,
		Specialization: l.Specialization,
		Location:       l.Location,
		Bio:            l.Bio,
		Languages:      strings.Join(langs, " "),
	}
}
