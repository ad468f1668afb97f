package ingest

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AngelCh415/admira-dashboard/internal/models"
)

//go:embed default_dataset.yaml
var defaultDataset []byte

// Default devuelve el dataset de demo embebido.
func Default() models.Dataset {
	ds, err := decodeYAML(defaultDataset)
	if err != nil {
		panic("ingest: embedded dataset: " + err.Error())
	}
	return normalize(ds)
}

// Loader resuelve el origen del dataset una sola vez, al arrancar.
type Loader struct {
	c   HTTPClient
	log *slog.Logger
}

func NewLoader(c HTTPClient, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{c: c, log: log}
}

// Load acepta "" (embebido), una URL http(s) con JSON o un archivo .json/.yaml/.yml.
func (l *Loader) Load(ctx context.Context, source string) (models.Dataset, error) {
	source = strings.TrimSpace(source)
	var (
		ds  models.Dataset
		err error
	)
	switch {
	case source == "":
		ds, err = decodeYAML(defaultDataset)
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		if l.c == nil {
			return models.Dataset{}, errors.New("ingest: http source without client")
		}
		err = GetJSONWithRetry(ctx, l.c, source, &ds)
	default:
		ds, err = readFile(source)
	}
	if err != nil {
		return models.Dataset{}, fmt.Errorf("load dataset %q: %w", source, err)
	}
	ds = normalize(ds)
	if err := Validate(ds); err != nil {
		return models.Dataset{}, fmt.Errorf("load dataset %q: %w", source, err)
	}
	for _, w := range FunnelWarnings(ds) {
		l.log.Warn("funnel inconsistency", slog.String("detail", w))
	}
	l.log.Info("dataset loaded",
		slog.String("source", sourceLabel(source)),
		slog.Int("ads", len(ds.Ads)),
		slog.Int("closers", len(ds.Closers)),
		slog.Int("methods", len(ds.Methods)))
	return ds, nil
}

func readFile(path string) (models.Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return models.Dataset{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var ds models.Dataset
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&ds); err != nil {
			return models.Dataset{}, err
		}
		return ds, nil
	case ".yaml", ".yml":
		return decodeYAML(b)
	default:
		return models.Dataset{}, fmt.Errorf("unsupported dataset format %q", filepath.Ext(path))
	}
}

func decodeYAML(b []byte) (models.Dataset, error) {
	var ds models.Dataset
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		return models.Dataset{}, err
	}
	return ds, nil
}

// normalize limpia espacios y fuerza slices no nil.
func normalize(ds models.Dataset) models.Dataset {
	if ds.Ads == nil {
		ds.Ads = []models.Ad{}
	}
	if ds.Closers == nil {
		ds.Closers = []models.Closer{}
	}
	if ds.Methods == nil {
		ds.Methods = []models.Method{}
	}
	for i := range ds.Ads {
		ds.Ads[i].AdID = strings.TrimSpace(ds.Ads[i].AdID)
		ds.Ads[i].AdName = coalesce(ds.Ads[i].AdName, ds.Ads[i].AdID)
		ds.Ads[i].Medium = coalesce(ds.Ads[i].Medium, "unknown")
		if ds.Ads[i].Campaigns == nil {
			ds.Ads[i].Campaigns = []models.Campaign{}
		}
		for j := range ds.Ads[i].Campaigns {
			ds.Ads[i].Campaigns[j].Name = strings.TrimSpace(ds.Ads[i].Campaigns[j].Name)
		}
	}
	for i := range ds.Closers {
		ds.Closers[i].Name = strings.TrimSpace(ds.Closers[i].Name)
	}
	for i := range ds.Methods {
		ds.Methods[i].Name = strings.TrimSpace(ds.Methods[i].Name)
	}
	return ds
}

func coalesce(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

func sourceLabel(s string) string {
	if s == "" {
		return "embedded"
	}
	return s
}
