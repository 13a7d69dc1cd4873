package persistence

import (
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"radiomon/internal/models"
	"radiomon/internal/providers"
)

type FileManagerInterface interface {
	SaveToFile(fileName string) error
	LoadFromFile(fileName string) error
	Close()
}

// FileManager persists the play-history store as an atomic snapshot file.
type FileManager struct {
	store      *models.HistoryStore
	compressor CompressorInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewFileManager(store *models.HistoryStore, compressor CompressorInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) FileManagerInterface {
	return &FileManager{
		store:      store,
		compressor: compressor,
		logger:     logger,
		metrics:    metrics,
	}
}

func (f *FileManager) SaveToFile(fileName string) error {
	start := time.Now()
	storage := f.store.Snapshot()

	jsonData, err := json.Marshal(storage)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err = os.Rename(tmpFile, fileName); err != nil {
		return err
	}

	f.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}

func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return fmt.Errorf("decompress snapshot: %w", err)
	}

	var storage models.Storage
	if err := json.Unmarshal(decompressedData, &storage); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	f.store.Restore(&storage)
	f.logger.Infof(providers.TypeApp, "Restored play history for %d campaigns (last saved %s)",
		len(storage.PlayHistory), storage.LastSaved.Format(time.RFC3339))
	return nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}
