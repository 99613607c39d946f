// Package ingest converts the research document's embedded object literals
// into a normalized passage corpus: extraction (balanced-brace scanning),
// normalization (informal literal to strict JSON) and chunking (typed record
// to tagged, weighted passages).
package ingest

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/continuum-intelligence/researchd/internal/domain"
)

// Corpus is the parsed output of one source document.
type Corpus struct {
	// ByTicker holds each ticker's passages in chunk-emission order.
	ByTicker map[string][]domain.Passage
	// Order lists tickers as discovered in the document, so the flattened
	// corpus is deterministic across runs.
	Order []string
}

// ParseDocument runs the full pipeline over one document. A ticker whose
// literal cannot be balanced, normalized or decoded is dropped with a log
// line; parsing itself never fails.
func ParseDocument(doc string, logger *zap.Logger) *Corpus {
	if logger == nil {
		logger = zap.NewNop()
	}

	refData := namedRecords(doc, referenceBlockName, logger)
	freshData := namedRecords(doc, freshnessBlockName, logger)

	corpus := &Corpus{ByTicker: make(map[string][]domain.Passage)}
	for _, blk := range stockBlocks(doc) {
		normalized, err := Normalize(blk.literal)
		if err != nil {
			logger.Warn("dropping malformed research object",
				zap.String("ticker", blk.ticker), zap.Error(err))
			continue
		}
		rec, err := decodeStock(normalized)
		if err != nil {
			logger.Warn("dropping undecodable research object",
				zap.String("ticker", blk.ticker), zap.Error(err))
			continue
		}

		var ref ReferenceRecord
		if raw, ok := refData[blk.ticker]; ok {
			if err := json.Unmarshal(raw, &ref); err != nil {
				logger.Warn("dropping malformed reference entry",
					zap.String("ticker", blk.ticker), zap.Error(err))
				ref = nil
			}
		}
		var fresh *FreshnessRecord
		if raw, ok := freshData[blk.ticker]; ok {
			var f FreshnessRecord
			if err := json.Unmarshal(raw, &f); err != nil {
				logger.Warn("dropping malformed freshness entry",
					zap.String("ticker", blk.ticker), zap.Error(err))
			} else {
				fresh = &f
			}
		}

		corpus.ByTicker[blk.ticker] = ChunkStock(blk.ticker, rec, ref, fresh)
		corpus.Order = append(corpus.Order, blk.ticker)
	}
	return corpus
}

// namedRecords extracts and normalizes a `const NAME = {...}` block, keyed by
// ticker. An absent or malformed block yields an empty map.
func namedRecords(doc, name string, logger *zap.Logger) map[string]json.RawMessage {
	literal := namedBlock(doc, name)
	if literal == "" {
		return nil
	}
	normalized, err := Normalize(literal)
	if err != nil {
		logger.Warn("dropping malformed named block",
			zap.String("block", name), zap.Error(err))
		return nil
	}
	var records map[string]json.RawMessage
	if err := json.Unmarshal(normalized, &records); err != nil {
		logger.Warn("dropping undecodable named block",
			zap.String("block", name), zap.Error(err))
		return nil
	}
	return records
}
