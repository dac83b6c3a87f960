package services

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"linkbio/internal/config"
	"linkbio/internal/models"

	"github.com/oschwald/geoip2-golang"
	"github.com/oschwald/maxminddb-golang"
)

type geoIPReader interface {
	City(ip net.IP) (*geoip2.City, error)
	Metadata() maxminddb.Metadata
	Close() error
}

// GeoLocator resolves an address to a coarse location. Implementations must
// not fail: anything they cannot resolve comes back as UnknownGeo().
type GeoLocator interface {
	Lookup(ip string) models.GeoInfo
}

// UnknownGeo is the record used whenever a lookup is unavailable.
func UnknownGeo() models.GeoInfo {
	return models.GeoInfo{Country: unknownLabel, Region: unknownLabel, City: unknownLabel}
}

type GeoIPService struct {
	cfg       config.Config
	logger    *slog.Logger
	geoReader geoIPReader
	geoLock   sync.RWMutex
	open      func(path string) (geoIPReader, error)
}

func NewGeoIPService(cfg config.Config, logger *slog.Logger) *GeoIPService {
	return &GeoIPService{
		cfg:    cfg,
		logger: logger,
		open:   openGeoIP,
	}
}

func openGeoIP(path string) (geoIPReader, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	return reader, nil
}

func (s *GeoIPService) Init() {
	if s.cfg.MaxMindAccountID == "" || s.cfg.MaxMindLicenseKey == "" {
		if _, err := os.Stat(s.cfg.MaxMindDBPath); err == nil && s.cfg.MaxMindDBPath != "" {
			s.reloadReader(s.cfg.MaxMindDBPath)
			return
		}
		s.logger.Warn("GeoIP: MaxMind credentials not set and no database present. Lookups will return Unknown.")
		return
	}

	dbPath := s.cfg.MaxMindDBPath
	dbDir := filepath.Dir(dbPath)

	if err := os.MkdirAll(dbDir, 0755); err != nil {
		s.logger.Error("GeoIP: Failed to create directory", "dir", dbDir, "error", err)
		return
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		s.logger.Info("GeoIP: Database missing, downloading...")
		if err := s.updateGeoDB(); err != nil {
			s.logger.Error("GeoIP: Initial download failed", "error", err)
		}
	}

	s.reloadReader(dbPath)
}

func (s *GeoIPService) StartUpdater(ctx context.Context) {
	s.StartUpdaterWithInterval(ctx, 24*time.Hour)
}

func (s *GeoIPService) StartUpdaterWithInterval(ctx context.Context, interval time.Duration) {
	if s.cfg.MaxMindAccountID == "" {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.logger.Info("GeoIP: Running scheduled update...")
			if err := s.updateGeoDB(); err != nil {
				s.logger.Error("GeoIP: Update failed", "error", err)
				continue
			}
			s.reloadReader(s.cfg.MaxMindDBPath)
		case <-ctx.Done():
			s.logger.Info("GeoIP: Updater stopping")
			return
		}
	}
}

func (s *GeoIPService) updateGeoDB() error {
	dbDir := filepath.Dir(s.cfg.MaxMindDBPath)
	confPath := filepath.Join(dbDir, "GeoIP.conf")

	content := fmt.Sprintf("AccountID %s\nLicenseKey %s\nEditionIDs %s\nDatabaseDirectory %s\n",
		s.cfg.MaxMindAccountID, s.cfg.MaxMindLicenseKey, s.cfg.MaxMindEditionIDs, dbDir)

	if err := os.WriteFile(confPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write GeoIP.conf: %w", err)
	}
	defer os.Remove(confPath)

	cmd := exec.Command("geoipupdate", "-v", "-f", confPath, "-d", dbDir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("geoipupdate failed: %w, output: %s", err, string(output))
	}

	s.logger.Info("GeoIP: Database updated successfully")
	return nil
}

// reloadReader opens path and swaps it in. The old reader is closed only
// once the write lock is held, i.e. after every in-flight Lookup has
// returned. If path cannot be opened the current reader stays in place.
func (s *GeoIPService) reloadReader(path string) {
	reader, err := s.open(path)
	if err != nil {
		s.logger.Error("GeoIP: Failed to open database", "path", path, "error", err)
		return
	}

	s.geoLock.Lock()
	old := s.geoReader
	s.geoReader = reader
	if old != nil {
		old.Close()
	}
	s.geoLock.Unlock()

	meta := reader.Metadata()
	s.logger.Info("GeoIP: Loaded database", "type", meta.DatabaseType, "epoch", meta.BuildEpoch)
}

// Lookup never returns an error; loopback, private and unparsable addresses,
// a missing database and reader failures all yield UnknownGeo().
func (s *GeoIPService) Lookup(ipStr string) models.GeoInfo {
	geo := UnknownGeo()

	ip := net.ParseIP(ipStr)
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() {
		return geo
	}

	// Held across City: the reader's memory is unmapped on Close.
	s.geoLock.RLock()
	defer s.geoLock.RUnlock()

	if s.geoReader == nil {
		return geo
	}

	record, err := s.geoReader.City(ip)
	if err != nil || record == nil {
		s.logger.Debug("GeoIP: Lookup error", "error", err)
		return geo
	}

	if name, ok := record.Country.Names["en"]; ok && name != "" {
		geo.Country = name
	} else if record.Country.IsoCode != "" {
		geo.Country = record.Country.IsoCode
	}

	if len(record.Subdivisions) > 0 {
		if name, ok := record.Subdivisions[0].Names["en"]; ok && name != "" {
			geo.Region = name
		}
	}

	if name, ok := record.City.Names["en"]; ok && name != "" {
		geo.City = name
	}

	// MaxMind reports 0,0 when it has no coordinates.
	if record.Location.Latitude != 0 || record.Location.Longitude != 0 {
		lat, lng := record.Location.Latitude, record.Location.Longitude
		geo.Lat = &lat
		geo.Lng = &lng
	}

	return geo
}
