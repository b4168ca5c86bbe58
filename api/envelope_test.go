// ABOUTME: Tests for response envelope normalization
// ABOUTME: Verifies all supported wrapper shapes decode to the same collection
package api

import (
	"encoding/json"
	"testing"

	"salespad/models"
)

func TestDecodeListAllEnvelopeShapes(t *testing.T) {
	shapes := map[string]string{
		"raw array":     `[{"id":"l1","name":"Ada"},{"id":"l2","name":"Grace"}]`,
		"single data":   `{"data":[{"id":"l1","name":"Ada"},{"id":"l2","name":"Grace"}]}`,
		"double data":   `{"data":{"data":[{"id":"l1","name":"Ada"},{"id":"l2","name":"Grace"}]}}`,
	}

	for name, body := range shapes {
		leads, err := DecodeList[models.Lead](json.RawMessage(body))
		if err != nil {
			t.Fatalf("%s: DecodeList failed: %v", name, err)
		}
		if len(leads) != 2 {
			t.Fatalf("%s: expected 2 leads, got %d", name, len(leads))
		}
		if leads[0].ID != "l1" || leads[1].ID != "l2" {
			t.Errorf("%s: wrong lead IDs: %q, %q", name, leads[0].ID, leads[1].ID)
		}
		if leads[0].Name != "Ada" {
			t.Errorf("%s: expected name Ada, got %q", name, leads[0].Name)
		}
	}
}

func TestDecodeListEmptyVariants(t *testing.T) {
	for name, body := range map[string]string{
		"null body":   `null`,
		"null data":   `{"data":null}`,
		"empty array": `[]`,
		"empty data":  `{"data":[]}`,
	} {
		leads, err := DecodeList[models.Lead](json.RawMessage(body))
		if err != nil {
			t.Fatalf("%s: DecodeList failed: %v", name, err)
		}
		if leads == nil {
			t.Errorf("%s: expected non-nil empty slice", name)
		}
		if len(leads) != 0 {
			t.Errorf("%s: expected empty slice, got %d items", name, len(leads))
		}
	}
}

func TestDecodeListRejectsMalformed(t *testing.T) {
	if _, err := DecodeList[models.Lead](json.RawMessage(`{"data": 42}`)); err == nil {
		t.Error("expected error for scalar data payload")
	}
	if _, err := DecodeList[models.Lead](json.RawMessage(`{not json`)); err == nil {
		t.Error("expected error for malformed body")
	}
}

func TestDecodeItemShapes(t *testing.T) {
	for name, body := range map[string]string{
		"bare object": `{"id":"d1","title":"Enterprise License","stage":"proposal"}`,
		"single data": `{"data":{"id":"d1","title":"Enterprise License","stage":"proposal"}}`,
		"double data": `{"data":{"data":{"id":"d1","title":"Enterprise License","stage":"proposal"}}}`,
	} {
		deal, err := DecodeItem[models.Deal](json.RawMessage(body))
		if err != nil {
			t.Fatalf("%s: DecodeItem failed: %v", name, err)
		}
		if deal.ID != "d1" {
			t.Errorf("%s: expected deal d1, got %q", name, deal.ID)
		}
		if deal.Stage != "proposal" {
			t.Errorf("%s: expected stage proposal, got %q", name, deal.Stage)
		}
	}
}

func TestDecodeItemEmptyPayload(t *testing.T) {
	if _, err := DecodeItem[models.Deal](json.RawMessage(`{"data":null}`)); err == nil {
		t.Error("expected error for null item payload")
	}
}
