// =============================================================================
// Portfolio Ledger - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the ledger, including:
//   - Disclosure workbook location (per-publisher naming patterns)
//   - File archival (copying ingested workbooks)
//   - Directory management
//
// ARCHIVAL STRATEGY:
//   - Disclosure files are copied to the archive after successful ingest,
//     never moved: the raw data dir stays the source of truth for re-runs
//   - Failed files are left untouched
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the ledger.
type FileManager struct {
	// DataDir is the root directory of raw disclosure workbooks, one
	// subdirectory per AMC.
	DataDir string

	// OutputDir is the directory where run artifacts are written.
	OutputDir string

	// ArchiveDir is the directory for archived disclosure files.
	ArchiveDir string
}

// NewFileManager creates a FileManager over the configured directories.
func NewFileManager(dataDir, outputDir, archiveDir string) *FileManager {
	return &FileManager{
		DataDir:    dataDir,
		OutputDir:  outputDir,
		ArchiveDir: archiveDir,
	}
}

// EnsureDirectories creates all required directories if they don't exist.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{fm.DataDir, fm.OutputDir, fm.ArchiveDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// DISCLOSURE FILE LOCATION
// =============================================================================

// monthEndLayout is the period format used throughout: 2025-12-31.
const monthEndLayout = "2006-01-02"

// DisclosurePath resolves the workbook path for one fund-period.
//
// The file name comes from the publisher's pattern with placeholders
// substituted:
//
//	{month_end}   - 2025-12-31
//	{month_short} - 2025-Dec
//	{year_month}  - 2025-12
//
// An empty pattern uses the default "<amcFolder>_<monthEnd>.xlsx". When the
// resolved .xlsx file does not exist but a sibling .xls does, the .xls path
// is returned; some publishers still ship the legacy format.
func (fm *FileManager) DisclosurePath(amcFolder, pattern, monthEnd string) (string, error) {
	dt, err := time.Parse(monthEndLayout, monthEnd)
	if err != nil {
		return "", fmt.Errorf("invalid month end %q: %w", monthEnd, err)
	}

	var filename string
	if pattern == "" {
		filename = fmt.Sprintf("%s_%s.xlsx", amcFolder, monthEnd)
	} else {
		filename = pattern
		filename = strings.ReplaceAll(filename, "{month_short}", dt.Format("2006-Jan"))
		filename = strings.ReplaceAll(filename, "{month_end}", monthEnd)
		filename = strings.ReplaceAll(filename, "{year_month}", dt.Format("2006-01"))
	}

	path := filepath.Join(fm.DataDir, amcFolder, filename)

	if !FileExists(path) && strings.HasSuffix(path, ".xlsx") {
		xls := strings.TrimSuffix(path, ".xlsx") + ".xls"
		if FileExists(xls) {
			return xls, nil
		}
	}

	return path, nil
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveDisclosure copies an ingested workbook into the archive under its
// AMC subdirectory and returns the archived path.
func (fm *FileManager) ArchiveDisclosure(filePath, amcFolder string) (string, error) {
	archiveDir := filepath.Join(fm.ArchiveDir, amcFolder)
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	archivePath := filepath.Join(archiveDir, filepath.Base(filePath))
	if err := copyFile(filePath, archivePath); err != nil {
		return "", fmt.Errorf("failed to copy file to archive: %w", err)
	}

	return archivePath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
