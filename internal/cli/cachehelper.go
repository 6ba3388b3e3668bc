package cli

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"codoc/internal/store"
)

// openCache opens the configured run cache. A broken cache degrades to
// no caching instead of failing the command.
func openCache() *store.Store {
	if !cfg.Cache.Enabled {
		return nil
	}
	s, err := store.Open(cfg.Cache.Path)
	if err != nil {
		logrus.Warnf("Cache unavailable, continuing without it: %v", err)
		return nil
	}
	return s
}

// cacheGet looks up key and unmarshals the payload into v. Reads are
// skipped when noCache is set; writes still happen so a later run can
// hit.
func cacheGet(s *store.Store, key string, noCache bool, v any) bool {
	if s == nil || noCache {
		return false
	}
	payload, ok, err := s.Get(key)
	if err != nil {
		logrus.Warnf("Cache read failed: %v", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(payload, v); err != nil {
		logrus.Warnf("Discarding unreadable cache entry: %v", err)
		return false
	}
	return true
}

func cachePut(s *store.Store, kind, key string, v any) {
	if s == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.Put(kind, key, cfg.LLM.Provider, cfg.LLM.Model, payload); err != nil {
		logrus.Warnf("Cache write failed: %v", err)
	}
}
