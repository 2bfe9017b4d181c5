package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"go.etcd.io/bbolt"
	"research/config"
)

// CurrentSchemaVersion is the current schema version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 1

var (
	keySchemaVersion = []byte("schema_version")
	keyConfigHash    = []byte("config_hash")
)

// SchemaInfo stores schema version and configuration hash.
type SchemaInfo struct {
	Version    int    `json:"version"`
	ConfigHash string `json:"config_hash"`
}

// GetSchemaInfo retrieves the current schema info from the database.
func (s *BoltStore) GetSchemaInfo() (*SchemaInfo, error) {
	var info SchemaInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		if b == nil {
			return nil
		}
		if v := b.Get(keySchemaVersion); v != nil {
			n, err := strconv.Atoi(string(v))
			if err != nil {
				return fmt.Errorf("invalid schema version %q: %w", v, err)
			}
			info.Version = n
		}
		if v := b.Get(keyConfigHash); v != nil {
			info.ConfigHash = string(v)
		}
		return nil
	})
	return &info, err
}

// SetSchemaInfo stores the schema info in the database.
func (s *BoltStore) SetSchemaInfo(info *SchemaInfo) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		if err := b.Put(keySchemaVersion, []byte(strconv.Itoa(info.Version))); err != nil {
			return err
		}
		return b.Put(keyConfigHash, []byte(info.ConfigHash))
	})
}

// ComputeConfigHash hashes the settings that shape cached summaries.
// A change means cached summaries are stale.
func ComputeConfigHash(cfg *config.Config) string {
	relevant := struct {
		Provider   string `json:"provider"`
		Model      string `json:"model"`
		ChunkChars int    `json:"chunk_chars"`
		MaxLength  int    `json:"max_length"`
		MinLength  int    `json:"min_length"`
	}{
		Provider:   cfg.Summarizer.Provider,
		Model:      cfg.Summarizer.Model,
		ChunkChars: cfg.Documents.SummaryChunkChars,
		MaxLength:  cfg.Documents.SummaryMaxLength,
		MinLength:  cfg.Documents.SummaryMinLength,
	}

	data, _ := json.Marshal(relevant)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

// MigrationResult describes the result of a migration check.
type MigrationResult struct {
	NeedsMigration   bool
	InvalidSummaries bool
	Incompatible     bool
	OldVersion       int
	NewVersion       int
	Reason           string
}

// CheckMigration reports whether the database needs a schema upgrade or a
// summary cache flush.
func (s *BoltStore) CheckMigration(cfg *config.Config) (*MigrationResult, error) {
	info, err := s.GetSchemaInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get schema info: %w", err)
	}

	result := &MigrationResult{
		OldVersion: info.Version,
		NewVersion: CurrentSchemaVersion,
	}

	switch {
	case info.Version == 0:
		result.NeedsMigration = true
		result.Reason = "initializing schema version"
	case info.Version < CurrentSchemaVersion:
		result.NeedsMigration = true
		result.Reason = fmt.Sprintf("schema upgrade from v%d to v%d", info.Version, CurrentSchemaVersion)
	case info.Version > CurrentSchemaVersion:
		result.Incompatible = true
		result.Reason = fmt.Sprintf("database created by newer version (v%d > v%d)", info.Version, CurrentSchemaVersion)
		return result, nil
	}

	if info.ConfigHash != "" && info.ConfigHash != ComputeConfigHash(cfg) {
		result.InvalidSummaries = true
		result.Reason = "summarizer configuration changed"
	}

	return result, nil
}

// Migrate brings the schema up to date and drops cached summaries made
// under a different summarizer configuration.
func (s *BoltStore) Migrate(cfg *config.Config) (*MigrationResult, error) {
	result, err := s.CheckMigration(cfg)
	if err != nil {
		return nil, err
	}
	if result.Incompatible {
		return result, fmt.Errorf("cannot open store: %s", result.Reason)
	}

	if result.InvalidSummaries {
		if err := s.ClearSummaries(); err != nil {
			return nil, err
		}
	}

	err = s.SetSchemaInfo(&SchemaInfo{
		Version:    CurrentSchemaVersion,
		ConfigHash: ComputeConfigHash(cfg),
	})
	return result, err
}

// ClearSummaries removes every cached summary.
func (s *BoltStore) ClearSummaries() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketSummaries); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucket(bucketSummaries)
		return err
	})
}
