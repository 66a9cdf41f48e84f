package cli

import (
	"context"
	"fmt"
	"log/slog"

	"catalog-kit/internal/config"
	"catalog-kit/internal/decode"
	"catalog-kit/internal/domain"
	"catalog-kit/internal/objectstore"
	"catalog-kit/internal/service/loader"
	"catalog-kit/internal/warehouse"
)

// app carries the resolved configuration and the client constructors shared
// by all commands. Tests swap the constructors for fakes.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	openWarehouse func(ctx context.Context, cfg *config.Config) (domain.Warehouse, func(), error)
	openStore     func(ctx context.Context, cfg *config.Config, scheme string) (domain.ObjectStore, func(), error)
	openDecoder   func() (loader.Decoder, func(), error)
}

func newApp() *app {
	return &app{
		logger:        slog.Default(),
		openWarehouse: openBigQuery,
		openStore:     openObjectStore,
		openDecoder:   openDuckDBDecoder,
	}
}

func openBigQuery(ctx context.Context, cfg *config.Config) (domain.Warehouse, func(), error) {
	bq, err := warehouse.NewBigQuery(ctx, warehouse.Options{
		ProjectID:       cfg.Warehouse.ProjectID,
		CredentialsFile: cfg.Warehouse.CredentialsFile,
		Location:        cfg.Warehouse.Location,
	})
	if err != nil {
		return nil, nil, err
	}
	return bq, func() { _ = bq.Close() }, nil
}

func openObjectStore(ctx context.Context, cfg *config.Config, scheme string) (domain.ObjectStore, func(), error) {
	switch scheme {
	case objectstore.SchemeS3:
		s3, err := objectstore.NewS3(ctx, objectstore.S3Options{
			Region:       cfg.Storage.AWSRegion,
			Endpoint:     cfg.Storage.S3Endpoint,
			UsePathStyle: cfg.Storage.S3PathStyle,
		})
		if err != nil {
			return nil, nil, err
		}
		return s3, func() {}, nil
	case objectstore.SchemeGCS:
		gcs, err := objectstore.NewGCS(ctx, cfg.Storage.GCSCredsFile)
		if err != nil {
			return nil, nil, err
		}
		return gcs, func() { _ = gcs.Close() }, nil
	case objectstore.SchemeAzure:
		if !cfg.Storage.HasAzure() {
			return nil, nil, domain.ErrValidation("AZURE_STORAGE_ACCOUNT is required for %s:// URIs", scheme)
		}
		az, err := objectstore.NewAzure(cfg.Storage.AzureAccount, cfg.Storage.AzureKey)
		if err != nil {
			return nil, nil, err
		}
		return az, func() {}, nil
	default:
		return nil, nil, domain.ErrValidation("unsupported object store scheme %q", scheme)
	}
}

func openDuckDBDecoder() (loader.Decoder, func(), error) {
	d, err := decode.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open decoder: %w", err)
	}
	return d, func() { _ = d.Close() }, nil
}

// router opens one store per distinct scheme among uris.
func (a *app) router(ctx context.Context, uris []string) (*objectstore.Router, func(), error) {
	r := objectstore.NewRouter()
	var closers []func()
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	seen := map[string]bool{}
	for _, uri := range uris {
		loc, err := objectstore.ParseURI(uri)
		if err != nil {
			closeAll()
			return nil, nil, domain.ErrValidation("%s", err.Error())
		}
		if seen[loc.Scheme] {
			continue
		}
		seen[loc.Scheme] = true
		store, closeFn, err := a.openStore(ctx, a.cfg, loc.Scheme)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("open %s store: %w", loc.Scheme, err)
		}
		closers = append(closers, closeFn)
		r.Register(loc.Scheme, store)
	}
	return r, closeAll, nil
}
