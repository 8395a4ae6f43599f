package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Olprog59/go-delegation/internal/repository/db"
)

// ErrBackupUnsupported is returned for engines without VACUUM INTO / Retourné pour les moteurs sans VACUUM INTO
var ErrBackupUnsupported = errors.New("backup is only supported for file-based sqlite databases")

const backupTimeLayout = "20060102-150405"

// startBackupRoutine starts automatic backup routine / Démarre la routine de backup automatique
func (c *Container) startBackupRoutine(ctx context.Context) {
	go func() {
		c.Metrics.SetBackgroundTaskStatus("database_backup", true)
		ticker := time.NewTicker(c.Config.Backup.Interval)
		defer ticker.Stop()

		slog.Info("automatic database backup enabled",
			"interval", c.Config.Backup.Interval,
			"retention_days", c.Config.Backup.RetentionDays)

		for {
			select {
			case <-ticker.C:
				if _, err := c.Backup(ctx); err != nil {
					slog.Error("backup failed", "err", err)
				}
				// Clean old backups after creating new one / Nettoie les anciens backups après création
				if _, err := c.cleanOldBackups(time.Now()); err != nil {
					slog.Error("backup cleanup failed", "err", err)
				}
			case <-ctx.Done():
				c.Metrics.SetBackgroundTaskStatus("database_backup", false)
				slog.Info("backup goroutine stopped")
				return
			}
		}
	}()
}

// Backup writes a timestamped copy of the database and returns its path / Crée une copie horodatée de la base
func (c *Container) Backup(ctx context.Context) (string, error) {
	if c.dbType() != db.SQLite {
		return "", ErrBackupUnsupported
	}

	// Extract database filename from DSN / Extrait le nom du fichier depuis le DSN
	dbName := strings.TrimPrefix(c.Config.Database.DSN, "file:")
	if idx := strings.Index(dbName, "?"); idx >= 0 {
		dbName = dbName[:idx]
	}
	if dbName == "" || dbName == ":memory:" {
		return "", fmt.Errorf("cannot backup in-memory database: %w", ErrBackupUnsupported)
	}

	if err := os.MkdirAll(c.Config.Backup.Path, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupFilename := fmt.Sprintf("%s.backup-%s.db", filepath.Base(dbName), time.Now().Format(backupTimeLayout))
	backupPath := filepath.Join(c.Config.Backup.Path, backupFilename)

	// VACUUM INTO takes a literal, not a bind parameter / VACUUM INTO prend un littéral
	query := fmt.Sprintf("VACUUM INTO '%s'", strings.ReplaceAll(backupPath, "'", "''"))
	if _, err := c.DB.ExecContext(ctx, query); err != nil {
		return "", fmt.Errorf("backup execution failed: %w", err)
	}

	slog.Info("database backup created", "path", backupPath)
	return backupPath, nil
}

// cleanOldBackups removes backups older than the retention period / Supprime les anciens backups
func (c *Container) cleanOldBackups(now time.Time) (int, error) {
	if c.Config.Backup.RetentionDays <= 0 {
		return 0, nil // No cleanup if retention is 0 or negative / Pas de nettoyage si rétention <= 0
	}

	cutoffTime := now.AddDate(0, 0, -c.Config.Backup.RetentionDays)

	entries, err := os.ReadDir(c.Config.Backup.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to read backup directory: %w", err)
	}

	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		// Only delete .backup-*.db files / Ne supprime que les fichiers .backup-*.db
		if !strings.Contains(entry.Name(), ".backup-") || !strings.HasSuffix(entry.Name(), ".db") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			slog.Warn("failed to stat backup", "file", entry.Name(), "err", err)
			continue
		}

		if info.ModTime().Before(cutoffTime) {
			if err := os.Remove(filepath.Join(c.Config.Backup.Path, entry.Name())); err != nil {
				slog.Warn("failed to delete old backup", "file", entry.Name(), "err", err)
				continue
			}
			deleted++
			slog.Info("deleted old backup", "file", entry.Name(),
				"age_days", int(now.Sub(info.ModTime()).Hours()/24))
		}
	}

	if deleted > 0 {
		slog.Info("cleaned up old backups", "count", deleted)
	}
	return deleted, nil
}
