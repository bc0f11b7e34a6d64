// Copyright 2025 Finsight Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/finsight/newsintel/core"
	"github.com/finsight/newsintel/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS stories (
	id         TEXT PRIMARY KEY,
	story_text TEXT NOT NULL,
	sources    TEXT NOT NULL,
	companies  TEXT NOT NULL DEFAULT '',
	sectors    TEXT NOT NULL DEFAULT '',
	regulators TEXT NOT NULL DEFAULT '',
	people     TEXT NOT NULL DEFAULT '',
	events     TEXT NOT NULL DEFAULT '',
	sentiment  TEXT NOT NULL DEFAULT '',
	vector_key TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS stock_impacts (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	story_id     TEXT NOT NULL REFERENCES stories(id) ON DELETE CASCADE,
	company_name TEXT NOT NULL,
	ticker       TEXT NOT NULL,
	direction    TEXT NOT NULL,
	confidence   REAL NOT NULL,
	kind         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_impacts_story ON stock_impacts(story_id);
`

// Store implements storage.StoryStore on SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ storage.StoryStore = (*Store)(nil)

// newStore is an internal constructor that returns the concrete type.
func newStore(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// One connection only. SQLite serializes writers anyway, and a second
	// connection to an in-memory database would see a different database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "story-store"),
	}, nil
}

// NewStoryStore opens (creating if needed) a story store at the given path.
// Use ":memory:" for an ephemeral in-memory store.
//
// Returns storage.StoryStore interface (not *Store) to enforce abstraction.
func NewStoryStore(path string) (storage.StoryStore, error) {
	return newStore(path)
}

// SaveStory writes a story and all of its impacts in one transaction.
// Saving an existing key replaces the story and its impacts. The story's
// StoreKey is populated from its ID when unset.
func (s *Store) SaveStory(ctx context.Context, story *core.ConsolidatedStory) error {
	if story == nil {
		return core.ErrInvalidStory
	}
	if story.StoreKey == "" {
		story.StoreKey = story.ID.String()
	}

	sources, err := json.Marshal(story.Sources)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrSerializationFailed, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO stories
			(id, story_text, sources, companies, sectors, regulators, people, events, sentiment, vector_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		story.StoreKey,
		story.Text,
		string(sources),
		joinList(story.Entities.Companies),
		joinList(story.Entities.Sectors),
		joinList(story.Entities.Regulators),
		joinList(story.Entities.People),
		joinList(story.Entities.Events),
		story.Sentiment,
		story.VectorKey,
	)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM stock_impacts WHERE story_id = ?`, story.StoreKey); err != nil {
		return err
	}

	for _, impact := range story.Impacts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO stock_impacts (story_id, company_name, ticker, direction, confidence, kind)
			VALUES (?, ?, ?, ?, ?, ?)`,
			story.StoreKey,
			impact.CompanyName,
			impact.Ticker,
			string(impact.Direction),
			impact.Confidence,
			string(impact.Kind),
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Debug("saved story", "storeKey", story.StoreKey, "impacts", len(story.Impacts))
	return nil
}

// FetchStory retrieves a story with its impacts by store key.
func (s *Store) FetchStory(ctx context.Context, storeKey string) (*core.ConsolidatedStory, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, story_text, sources, companies, sectors, regulators, people, events, sentiment, vector_key
		FROM stories WHERE id = ?`, storeKey)

	story, err := scanStory(row)
	if err != nil {
		return nil, err
	}

	story.Impacts, err = s.fetchImpacts(ctx, storeKey)
	if err != nil {
		return nil, err
	}
	return story, nil
}

// ListStories retrieves every stored story with impacts, ordered by store key.
func (s *Store) ListStories(ctx context.Context) ([]*core.ConsolidatedStory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, story_text, sources, companies, sectors, regulators, people, events, sentiment, vector_key
		FROM stories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []*core.ConsolidatedStory
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, story)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, story := range stories {
		story.Impacts, err = s.fetchImpacts(ctx, story.StoreKey)
		if err != nil {
			return nil, err
		}
	}
	return stories, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) fetchImpacts(ctx context.Context, storeKey string) ([]core.StockImpact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT company_name, ticker, direction, confidence, kind
		FROM stock_impacts WHERE story_id = ? ORDER BY id`, storeKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var impacts []core.StockImpact
	for rows.Next() {
		var impact core.StockImpact
		var direction, kind string
		if err := rows.Scan(&impact.CompanyName, &impact.Ticker, &direction, &impact.Confidence, &kind); err != nil {
			return nil, err
		}
		impact.Direction = core.ImpactDirection(direction)
		impact.Kind = core.ImpactKind(kind)
		impacts = append(impacts, impact)
	}
	return impacts, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStory(row rowScanner) (*core.ConsolidatedStory, error) {
	var story core.ConsolidatedStory
	var sources, companies, sectors, regulators, people, events string

	err := row.Scan(&story.StoreKey, &story.Text, &sources,
		&companies, &sectors, &regulators, &people, &events,
		&story.Sentiment, &story.VectorKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(sources), &story.Sources); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrSerializationFailed, err)
	}

	story.ID = idFromStoreKey(story.StoreKey)
	story.Entities = core.ExtractedEntities{
		Companies:  splitList(companies),
		Sectors:    splitList(sectors),
		Regulators: splitList(regulators),
		People:     splitList(people),
		Events:     splitList(events),
	}
	return &story, nil
}

// idFromStoreKey parses the hex store key back into an ID.
// Keys written by other tooling that don't parse yield a zero ID.
func idFromStoreKey(storeKey string) core.ID {
	var raw uint64
	if _, err := fmt.Sscanf(storeKey, "%016x", &raw); err != nil {
		return 0
	}
	return core.ID(raw)
}

// joinList flattens an entity list to a comma-joined column value.
func joinList(items []string) string {
	return strings.Join(items, ", ")
}

// splitList is the inverse of joinList. Empty columns become empty lists,
// never nil, matching the zero value contract of ExtractedEntities.
func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
