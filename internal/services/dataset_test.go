package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pizza-dashboard/internal/models"
)

const validCSV = `pizza_id,order_id,pizza_name_id,quantity,order_date,order_time,unit_price,total_price,pizza_size,pizza_category,pizza_ingredients,pizza_name
1,1,hawaiian_m,1,1/1/2015,11:38:36,13.25,13.25,M,Classic,"Sliced Ham, Pineapple, Mozzarella Cheese",The Hawaiian Pizza
2,2,classic_dlx_m,1,01-01-2015,11:57:40,16,16,M,Classic,"Pepperoni, Mushrooms, Red Onions, Red Peppers, Bacon",The Classic Deluxe Pizza
3,2,five_cheese_l,2,1/2/2015,11:57:40,18.5,37,L,Veggie,"Mozzarella Cheese, Provolone Cheese, Smoked Gouda Cheese, Romano Cheese, Blue Cheese, Garlic",The Five Cheese Pizza
4,3,thai_ckn_l,x,13/45/2023,12:01:02,20.75,20.75,L,Chicken,"Chicken, Pineapple, Tomatoes, Red Peppers, Thai Sweet Chilli Sauce",The Thai Chicken Pizza
`

func createTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewDataset(t *testing.T) {
	d := NewDataset("")
	if d == nil {
		t.Fatal("NewDataset() returned nil")
	}
	if d.Ready() {
		t.Error("new dataset should not be ready")
	}
	if _, err := d.Records(); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("Records() error = %v, want ErrDataUnavailable", err)
	}
}

func TestDataset_LoadFromCSV_ValidData(t *testing.T) {
	d := NewDataset("")
	if err := d.LoadFromCSV(context.Background(), createTempCSV(t, validCSV)); err != nil {
		t.Fatalf("LoadFromCSV() error = %v", err)
	}

	records, err := d.Records()
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("len(records) = %d, want 4", len(records))
	}

	wantNames := []string{"The Hawaiian Pizza", "The Classic Deluxe Pizza", "The Five Cheese Pizza", "The Thai Chicken Pizza"}
	for i, name := range wantNames {
		if records[i].PizzaName != name {
			t.Errorf("records[%d].PizzaName = %q, want %q", i, records[i].PizzaName, name)
		}
	}

	if records[2].Quantity != 2 {
		t.Errorf("records[2].Quantity = %d, want 2", records[2].Quantity)
	}
	if !records[1].Date.Equal(time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("records[1].Date = %v", records[1].Date)
	}
	if records[3].HasDate() || records[3].Quantity != 0 {
		t.Errorf("malformed row should keep defaults, got %+v", records[3])
	}
	if records[3].Category != "Chicken" {
		t.Errorf("malformed row category = %q, want Chicken", records[3].Category)
	}
}

func TestDataset_LoadFromCSV_SkipsShortRows(t *testing.T) {
	content := "order_date,quantity,pizza_name,pizza_category\n" +
		"1/1/2015,1,A,Classic\n" +
		"1/1/2015,2\n" +
		"1/2/2015,3,B,Veggie\n"

	d := NewDataset("")
	if err := d.LoadFromCSV(context.Background(), createTempCSV(t, content)); err != nil {
		t.Fatalf("LoadFromCSV() error = %v", err)
	}

	records, _ := d.Records()
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].PizzaName != "A" || records[1].PizzaName != "B" {
		t.Errorf("unexpected records: %+v", records)
	}
	if got := d.Stats()["rows_skipped"]; got != int64(1) {
		t.Errorf("rows_skipped = %v, want 1", got)
	}
}

func TestDataset_LoadFromCSV_KeepsFileOrderAcrossBatches(t *testing.T) {
	var b strings.Builder
	b.WriteString("order_date,quantity,pizza_name,pizza_category\n")
	n := batchSize*2 + 17
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "1/1/2015,1,P%s,Classic\n", strings.Repeat("x", i%3))
	}

	d := NewDataset("")
	if err := d.LoadFromCSV(context.Background(), createTempCSV(t, b.String())); err != nil {
		t.Fatalf("LoadFromCSV() error = %v", err)
	}

	records, _ := d.Records()
	if len(records) != n {
		t.Fatalf("len(records) = %d, want %d", len(records), n)
	}
	for i, r := range records {
		want := "P" + strings.Repeat("x", i%3)
		if r.PizzaName != want {
			t.Fatalf("records[%d].PizzaName = %q, want %q", i, r.PizzaName, want)
		}
	}
}

func TestDataset_LoadFromCSV_InvalidData(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{name: "empty file", csv: ""},
		{name: "header only", csv: "order_date,quantity,pizza_name,pizza_category\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDataset("")
			if err := d.LoadFromCSV(context.Background(), createTempCSV(t, tt.csv)); err == nil {
				t.Error("LoadFromCSV() should fail")
			}
			if d.Ready() {
				t.Error("dataset should not be ready after a failed load")
			}
		})
	}
}

func TestDataset_LoadFromCSV_MissingFile(t *testing.T) {
	d := NewDataset("")
	err := d.LoadFromCSV(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Fatal("LoadFromCSV() should fail for a missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestDataset_LoadFromCSV_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDataset("")
	if err := d.LoadFromCSV(ctx, createTempCSV(t, validCSV)); !errors.Is(err, context.Canceled) {
		t.Errorf("LoadFromCSV() error = %v, want context.Canceled", err)
	}
}

func TestDataset_Cache(t *testing.T) {
	cacheDir := t.TempDir()
	path := createTempCSV(t, validCSV)

	// Backdate the CSV so the cache written below is newer.
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatal(err)
	}

	first := NewDataset(cacheDir)
	if err := first.LoadFromCSV(context.Background(), path); err != nil {
		t.Fatalf("first load: %v", err)
	}

	entries, err := os.ReadDir(cacheDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one cache file, got %v (err %v)", entries, err)
	}

	// Corrupt the CSV: a cache hit must not read it.
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatal(err)
	}

	second := NewDataset(cacheDir)
	if err := second.LoadFromCSV(context.Background(), path); err != nil {
		t.Fatalf("cached load: %v", err)
	}
	records, _ := second.Records()
	if len(records) != 4 {
		t.Errorf("cached records = %d, want 4", len(records))
	}
}

func TestDataset_MarkUnavailable(t *testing.T) {
	d := NewDataset("")
	d.SetRecords([]models.SalesRecord{{PizzaName: "A", Quantity: 1}})
	if !d.Ready() {
		t.Fatal("dataset should be ready after SetRecords")
	}

	d.MarkUnavailable(errors.New("disk on fire"))
	if d.Ready() {
		t.Error("dataset should not be ready after MarkUnavailable")
	}
	_, err := d.Records()
	if !errors.Is(err, ErrDataUnavailable) || !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("Records() error = %v", err)
	}
}

func TestDataset_Stats(t *testing.T) {
	d := NewDataset("")
	d.SetRecords(sampleRecords())

	stats := d.Stats()
	if stats["record_count"] != 7 {
		t.Errorf("record_count = %v, want 7", stats["record_count"])
	}
	if stats["pizzas"] != 4 {
		t.Errorf("pizzas = %v, want 4", stats["pizzas"])
	}
	if stats["categories"] != 3 {
		t.Errorf("categories = %v, want 3", stats["categories"])
	}
	if stats["undated"] != 1 {
		t.Errorf("undated = %v, want 1", stats["undated"])
	}
}
