package model_test

import (
	"testing"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestDescriptors(t *testing.T) {
	ds := model.Descriptors()
	gt.Array(t, ds).Length(6)

	d, ok := model.LookupDescriptor(model.ResourceCases)
	gt.Bool(t, ok).True()
	gt.Bool(t, d.HasFilter(model.FilterDue)).True()
	gt.Bool(t, d.HasFilter(model.FilterEntity)).False()

	_, ok = model.LookupDescriptor("users")
	gt.Bool(t, ok).False()
}

func TestListQueryMatches(t *testing.T) {
	q := model.ListQuery{Search: "saúde"}
	gt.Bool(t, q.Matches("Secretaria de SAÚDE")).True()
	gt.Bool(t, q.Matches("Educação", "SE")).False()
	gt.Bool(t, model.ListQuery{}.Matches("anything")).True()

	q = model.ListQuery{Filters: map[string]string{"status": " OPEN "}}
	gt.Value(t, q.Filter("status")).Equal("OPEN")
	gt.Value(t, q.Filter("due")).Equal("")
}
