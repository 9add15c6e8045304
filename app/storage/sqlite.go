package storage

import (
	"context"
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteVerdictStorage struct {
	db *sql.DB
}

func resolveDBPath(path string) string {
	if path != "" {
		return path
	}
	if envPath := os.Getenv("DB_PATH"); envPath != "" {
		return envPath
	}
	projectDir, err := os.Getwd()
	if err != nil {
		log.Fatalf("❌ Error getting project directory: %v", err)
	}
	defaultPath := filepath.Join(projectDir, "data", "moderation.db")
	log.Printf("📂 DB path not set, using default: %s", defaultPath)
	return defaultPath
}

func NewSQLiteStorage(path string) *SQLiteVerdictStorage {
	dbPath := resolveDBPath(path)
	if err := os.MkdirAll(filepath.Dir(dbPath), os.ModePerm); err != nil {
		log.Fatalf("❌ Error creating data directory for %s: %v", dbPath, err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		log.Fatalf("❌ Error opening SQLite DB at %s: %v", dbPath, err)
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS verdicts (
            id TEXT NOT NULL PRIMARY KEY,
            chat_id INTEGER NOT NULL,
            user_id INTEGER NOT NULL,
            message_id INTEGER NOT NULL,
            spam_score INTEGER NOT NULL,
            notes TEXT NULL,
            action TEXT NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_verdicts_chat_user ON verdicts (chat_id, user_id);
    `)
	if err != nil {
		log.Fatalf("❌ Error creating verdicts table: %v", err)
	}

	return &SQLiteVerdictStorage{db: db}
}

func (s *SQLiteVerdictStorage) SaveVerdict(ctx context.Context, verdict Verdict) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO verdicts (id, chat_id, user_id, message_id, spam_score, notes, action, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, datetime(?))`,
		verdict.ID, verdict.ChatID, verdict.UserID, verdict.MessageID,
		verdict.SpamScore, verdict.Notes, verdict.Action, verdict.CreatedAt.Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		log.Printf("⚠️ Error saving verdict for message %d: %v", verdict.MessageID, err)
		return err
	}
	return nil
}

func (s *SQLiteVerdictStorage) StatsByChat(ctx context.Context) ([]ChatStat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT chat_id, user_id, action, COUNT(*)
		 FROM verdicts
		 GROUP BY chat_id, user_id, action
		 ORDER BY chat_id ASC, user_id ASC, action ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []ChatStat
	for rows.Next() {
		var st ChatStat
		if err = rows.Scan(&st.ChatID, &st.UserID, &st.Action, &st.Count); err != nil {
			log.Printf("⚠️ Error scanning stats row: %v", err)
			continue
		}
		stats = append(stats, st)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *SQLiteVerdictStorage) Close() error {
	return s.db.Close()
}

// NewVerdict stamps a verdict with the current time.
func NewVerdict(id string, chatID, userID, messageID int64, score int, notes, action string) Verdict {
	return Verdict{
		ID:        id,
		ChatID:    chatID,
		UserID:    userID,
		MessageID: messageID,
		SpamScore: score,
		Notes:     notes,
		Action:    action,
		CreatedAt: time.Now(),
	}
}
