package product

import (
	"context"
	"strings"
	"testing"

	pkgerrors "github.com/rossimission/storefront-backend/pkg/errors"
)

const validImportCSV = `name,price,category,description,sizes,tags,stock_status,is_featured,is_active
Mission Tee,35.00,clothing,Classic logo tee,S|M|L,streetwear|logo,in_stock,true,true
City Print,120.00,art,Signed print,,limited,low_stock,,`

func TestImportCSVInsertsAllRows(t *testing.T) {
	svc, repo := newTestService(t)

	result, err := svc.ImportCSV(context.Background(), ImportCSVInput{Reader: strings.NewReader(validImportCSV)})
	if err != nil {
		t.Fatalf("import csv: %v", err)
	}
	if result.Imported != 2 {
		t.Fatalf("expected 2 imported rows, got %d", result.Imported)
	}
	if len(repo.created) != 2 {
		t.Fatalf("expected 2 stored products, got %d", len(repo.created))
	}

	tee := repo.created[0]
	if tee.Name != "Mission Tee" || tee.Price.StringFixed(2) != "35.00" {
		t.Fatalf("unexpected first row: %+v", tee)
	}
	if len(tee.Sizes) != 3 || tee.Sizes[1] != "M" {
		t.Fatalf("expected pipe-separated sizes, got %v", tee.Sizes)
	}
	if !tee.IsFeatured || !tee.IsActive {
		t.Fatalf("expected parsed booleans, got featured=%v active=%v", tee.IsFeatured, tee.IsActive)
	}

	artPrint := repo.created[1]
	if artPrint.Category.String() != "art" || artPrint.StockStatus.String() != "low_stock" {
		t.Fatalf("unexpected second row: %+v", artPrint)
	}
	if artPrint.IsFeatured {
		t.Fatalf("expected is_featured to default to false")
	}
	if !artPrint.IsActive {
		t.Fatalf("expected is_active to default to true")
	}
	if len(artPrint.Sizes) != 0 {
		t.Fatalf("expected empty sizes, got %v", artPrint.Sizes)
	}
}

func TestImportCSVRejectsWholeFileOnBadRow(t *testing.T) {
	svc, repo := newTestService(t)

	csvData := `name,price,category
Good Tee,35.00,clothing
,12.00,clothing
Bad Price,not-a-number,art`

	_, err := svc.ImportCSV(context.Background(), ImportCSVInput{Reader: strings.NewReader(csvData)})
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := domainErr.Details().([]string)
	if !ok || len(details) != 2 {
		t.Fatalf("expected 2 row errors in details, got %v", domainErr.Details())
	}
	if !strings.Contains(details[0], "row 3") || !strings.Contains(details[1], "row 4") {
		t.Fatalf("expected row numbers in errors, got %v", details)
	}
	if len(repo.created) != 0 {
		t.Fatalf("expected no rows stored after rejection")
	}
}

func TestImportCSVMissingRequiredColumn(t *testing.T) {
	svc, _ := newTestService(t)

	csvData := `name,category
Mission Tee,clothing`

	_, err := svc.ImportCSV(context.Background(), ImportCSVInput{Reader: strings.NewReader(csvData)})
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(domainErr.Message(), "price") {
		t.Fatalf("expected missing column named in message, got %q", domainErr.Message())
	}
}

func TestImportCSVEmptyFile(t *testing.T) {
	svc, _ := newTestService(t)

	for _, raw := range []string{"", "name,price,category\n"} {
		_, err := svc.ImportCSV(context.Background(), ImportCSVInput{Reader: strings.NewReader(raw)})
		domainErr := pkgerrors.As(err)
		if domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %q, got %v", raw, err)
		}
	}
}
