package usecase

import (
	"context"
	"fmt"
	"time"

	"motoparts-backend/internal/domain"
	"motoparts-backend/internal/infrastructure/spreadsheet"
	"motoparts-backend/pkg/logger"
)

// RuleSource lists every stored rule.
type RuleSource interface {
	List(ctx context.Context) ([]domain.ShippingRule, error)
}

// ObjectStore publishes a blob and returns where it can be fetched.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// RuleExport is a rendered rule table.
type RuleExport struct {
	Filename    string
	ContentType string
	Data        []byte
}

type RuleExportUsecase struct {
	rules RuleSource
	store ObjectStore
	now   func() time.Time
}

// NewRuleExportUsecase builds the exporter. A nil store disables Publish.
func NewRuleExportUsecase(rules RuleSource, store ObjectStore) *RuleExportUsecase {
	return &RuleExportUsecase{rules: rules, store: store, now: time.Now}
}

// Render builds an XLSX workbook of the current rule table.
func (uc *RuleExportUsecase) Render(ctx context.Context) (*RuleExport, error) {
	rules, err := uc.rules.List(ctx)
	if err != nil {
		return nil, err
	}
	data, err := spreadsheet.RenderRules(rules)
	if err != nil {
		return nil, fmt.Errorf("render shipping rules: %w", err)
	}
	return &RuleExport{
		Filename:    fmt.Sprintf("shipping-rules-%s.xlsx", uc.now().UTC().Format("20060102-150405")),
		ContentType: spreadsheet.ContentType,
		Data:        data,
	}, nil
}

// Publish renders the rule table and uploads it to object storage.
func (uc *RuleExportUsecase) Publish(ctx context.Context) (string, error) {
	if uc.store == nil {
		return "", domain.ErrExportStorageDisabled
	}
	export, err := uc.Render(ctx)
	if err != nil {
		return "", err
	}
	url, err := uc.store.Upload(ctx, "exports/"+export.Filename, export.Data, export.ContentType)
	if err != nil {
		return "", fmt.Errorf("publish shipping rules: %w", err)
	}
	logger.WithContext(ctx).Info().Str("url", url).Int("bytes", len(export.Data)).Msg("shipping rules exported")
	return url, nil
}
