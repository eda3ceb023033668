package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rusenback/docker-profiler/internal/errors"
	"github.com/rusenback/docker-profiler/internal/logger"
	"github.com/rusenback/docker-profiler/internal/model"
	_ "modernc.org/sqlite"
)

const (
	writeQueueSize = 1000
	batchSize      = 50
	flushInterval  = 5 * time.Second
	cleanupEvery   = time.Hour
	deleteBatch    = 1000
)

// Storage persists samples to sqlite through a background batch writer
type Storage struct {
	db        *sql.DB
	log       logger.Logger
	retention time.Duration

	writeChan chan *StatsEntry
	closeChan chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// StatsEntry is one sample queued for writing
type StatsEntry struct {
	ContainerID string
	Sample      model.Sample
}

// NewStorage opens (or creates) the database at path and starts the
// background writer and retention cleanup. A non-positive retention
// disables cleanup.
func NewStorage(path string, retention time.Duration, log logger.Logger) (*Storage, error) {
	if log == nil {
		log = logger.Noop()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStorage,
			"Failed to create data directory", "Check permissions for "+filepath.Dir(path))
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStorage,
			"Failed to open database", "")
	}
	// sqlite allows a single writer; serialize through one connection
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, errors.WrapWithCode(err, errors.ErrStorage,
			"Failed to create tables in "+path, "Delete the file if it is not a dockerprof database")
	}

	s := &Storage{
		db:        db,
		log:       log,
		retention: retention,
		writeChan: make(chan *StatsEntry, writeQueueSize),
		closeChan: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.writer()

	if retention > 0 {
		s.wg.Add(1)
		go s.cleanup()
	}

	log.Debug("storage opened at %s", path)
	return s, nil
}

// createTables creates the database schema
func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS container_stats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		container_id TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		cpu_percent REAL,
		memory_percent REAL,
		memory_mb REAL,
		network_rx_mb REAL,
		network_tx_mb REAL
	);

	CREATE INDEX IF NOT EXISTS idx_container_time
	ON container_stats(container_id, timestamp);

	CREATE TABLE IF NOT EXISTS containers (
		id TEXT PRIMARY KEY,
		name TEXT,
		image TEXT,
		first_seen INTEGER,
		last_seen INTEGER
	);
	`

	_, err := db.Exec(schema)
	return err
}

// RecordContainer upserts the container's name and image so history can be
// looked up by name later
func (s *Storage) RecordContainer(c model.Container) error {
	now := time.Now().Unix()
	_, err := s.db.Exec(`
		INSERT INTO containers (id, name, image, first_seen, last_seen)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			image = excluded.image,
			last_seen = excluded.last_seen
	`, c.ID, c.Name, c.Image, now, now)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStorage,
			"Failed to record container "+c.Name, "")
	}
	return nil
}

// Write queues a sample for writing
func (s *Storage) Write(entry *StatsEntry) {
	select {
	case s.writeChan <- entry:
	default:
		// never block the sampling loop
		s.log.Warn("write queue full, dropping sample for %s", entry.ContainerID)
	}
}

// writer runs in background and batch writes to database
func (s *Storage) writer() {
	defer s.wg.Done()

	buffer := make([]*StatsEntry, 0, batchSize*2)
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		if err := s.batchWrite(buffer); err != nil {
			s.log.Warn("failed to write %d samples: %v", len(buffer), err)
		}
		buffer = buffer[:0]
	}

	for {
		select {
		case entry := <-s.writeChan:
			buffer = append(buffer, entry)
			if len(buffer) >= batchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-s.closeChan:
			// drain whatever is still queued
			for {
				select {
				case entry := <-s.writeChan:
					buffer = append(buffer, entry)
				default:
					flush()
					return
				}
			}
		}
	}
}

// batchWrite writes a batch of entries in one transaction
func (s *Storage) batchWrite(entries []*StatsEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO container_stats
		(container_id, timestamp, cpu_percent, memory_percent,
		 memory_mb, network_rx_mb, network_tx_mb)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, entry := range entries {
		sample := entry.Sample
		if _, err := stmt.Exec(
			entry.ContainerID,
			sample.Timestamp.Unix(),
			sample.CPUPercent,
			sample.MemoryPercent,
			sample.MemoryMB,
			sample.NetRxMB,
			sample.NetTxMB,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Query returns the samples recorded for a container (by ID or recorded
// name) within the time range, oldest first. Ranges above 30 minutes are
// averaged into buckets.
func (s *Storage) Query(container string, timeRange TimeRange) ([]model.Sample, error) {
	cutoff := time.Now().Add(-timeRange.Duration()).Unix()

	const match = `(container_id = ? OR container_id IN (SELECT id FROM containers WHERE name = ?))`

	var (
		rows *sql.Rows
		err  error
	)

	if bucket := timeRange.BucketSize(); bucket == 0 {
		rows, err = s.db.Query(`
			SELECT timestamp, cpu_percent, memory_percent, memory_mb, network_rx_mb, network_tx_mb
			FROM container_stats
			WHERE `+match+` AND timestamp > ?
			ORDER BY timestamp ASC
		`, container, container, cutoff)
	} else {
		rows, err = s.db.Query(`
			SELECT
				(timestamp / ?) * ? AS bucket,
				AVG(cpu_percent),
				AVG(memory_percent),
				AVG(memory_mb),
				MAX(network_rx_mb),
				MAX(network_tx_mb)
			FROM container_stats
			WHERE `+match+` AND timestamp > ?
			GROUP BY bucket
			ORDER BY bucket ASC
		`, bucket, bucket, container, container, cutoff)
	}
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStorage,
			fmt.Sprintf("Failed to query history for %s", container), "")
	}
	defer rows.Close()

	return scanRows(rows)
}

// scanRows scans database rows into samples
func scanRows(rows *sql.Rows) ([]model.Sample, error) {
	var samples []model.Sample

	for rows.Next() {
		var timestamp int64
		var sample model.Sample

		if err := rows.Scan(
			&timestamp,
			&sample.CPUPercent,
			&sample.MemoryPercent,
			&sample.MemoryMB,
			&sample.NetRxMB,
			&sample.NetTxMB,
		); err != nil {
			return nil, err
		}

		sample.Timestamp = time.Unix(timestamp, 0)
		samples = append(samples, sample)
	}

	return samples, rows.Err()
}

// cleanup removes samples older than the retention period
func (s *Storage) cleanup() {
	defer s.wg.Done()

	ticker := time.NewTicker(cleanupEvery)
	defer ticker.Stop()

	s.Prune(time.Now().Add(-s.retention))

	for {
		select {
		case <-ticker.C:
			s.Prune(time.Now().Add(-s.retention))

		case <-s.closeChan:
			return
		}
	}
}

// Prune deletes samples older than cutoff in batches so the writer is never
// locked out for long. It returns the number of rows removed.
func (s *Storage) Prune(cutoff time.Time) int64 {
	var total int64
	for {
		result, err := s.db.Exec(`
			DELETE FROM container_stats WHERE id IN (
				SELECT id FROM container_stats WHERE timestamp < ? LIMIT ?
			)`,
			cutoff.Unix(),
			deleteBatch,
		)
		if err != nil {
			s.log.Warn("retention cleanup failed: %v", err)
			return total
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil || rowsAffected == 0 {
			return total
		}
		total += rowsAffected

		select {
		case <-s.closeChan:
			return total
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// Close flushes queued samples and closes the database
func (s *Storage) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closeChan)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}
