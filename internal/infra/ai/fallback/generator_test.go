package fallback

import (
	"reflect"
	"testing"

	"github.com/wearcheck/compliance-api/internal/domain/compliance"
)

func memberOf(res *compliance.Result, set []compliance.Result) bool {
	for i := range set {
		if reflect.DeepEqual(*res, set[i]) {
			return true
		}
	}
	return false
}

func TestGenerate_AlwaysFromCannedSet(t *testing.T) {
	g := New()
	for _, ind := range compliance.Industries() {
		set := Scenarios(ind)
		for i := 0; i < 50; i++ {
			res := g.Generate(ind)
			if !memberOf(res, set) {
				t.Fatalf("%s: generated result not in canned set: %+v", ind, res)
			}
		}
	}
}

func TestGenerate_AlwaysValid(t *testing.T) {
	g := New()
	for _, ind := range compliance.Industries() {
		for i := 0; i < 50; i++ {
			if err := g.Generate(ind).Validate(); err != nil {
				t.Fatalf("%s: canned result failed validation: %v", ind, err)
			}
		}
	}
}

func TestGenerate_ReturnsIndependentCopy(t *testing.T) {
	g := New()
	res := g.Generate(compliance.IndustryConstruction)
	res.CompliantItems = append(res.CompliantItems[:0], compliance.Item{Item: "tampered"})
	for i := 0; i < 50; i++ {
		if next := g.Generate(compliance.IndustryConstruction); len(next.CompliantItems) > 0 && next.CompliantItems[0].Item == "tampered" {
			t.Fatalf("Generate shares storage between calls")
		}
	}
}
