package filter_test

import (
	"testing"

	"github.com/dentkazan/clinicdirectory/internal/domain/entities"
	"github.com/dentkazan/clinicdirectory/internal/query/filter"
	"github.com/stretchr/testify/assert"
)

func sampleClinics() []entities.Clinic {
	return []entities.Clinic{
		{
			ID:       1,
			Name:     `Стоматология "Белый Кит"`,
			Address:  "ул. Баумана, 58, Казань",
			Services: []string{"Имплантация", "Отбеливание"},
		},
		{
			ID:       2,
			Name:     "Дентал Клиник",
			Address:  "пр. Победы, 125, Казань",
			Services: []string{"Имплантация", "Виниры"},
		},
		{
			ID:       3,
			Name:     "СмайлПлюс",
			Address:  "ул. Петербургская, 45, Казань",
			Services: []string{"Детская стоматология"},
		},
	}
}

func TestApply_Identity(t *testing.T) {
	clinics := sampleClinics()
	assert.Equal(t, clinics, filter.Apply(clinics, "", ""))
}

func TestApply_QueryMatchesNameCaseInsensitive(t *testing.T) {
	result := filter.Apply(sampleClinics(), "белый кит", "")

	assert.Len(t, result, 1)
	assert.Equal(t, 1, result[0].ID)
}

func TestApply_QueryMatchesAddress(t *testing.T) {
	result := filter.Apply(sampleClinics(), "победы", "")

	assert.Len(t, result, 1)
	assert.Equal(t, 2, result[0].ID)
}

func TestApply_ServiceExactMatch(t *testing.T) {
	result := filter.Apply(sampleClinics(), "", "Имплантация")

	assert.Len(t, result, 2)
	assert.Equal(t, 1, result[0].ID)
	assert.Equal(t, 2, result[1].ID)
}

func TestApply_ServiceIsNotSubstringMatched(t *testing.T) {
	result := filter.Apply(sampleClinics(), "", "Имплант")

	assert.Empty(t, result)
}

func TestApply_QueryAndServiceCombineWithAnd(t *testing.T) {
	result := filter.Apply(sampleClinics(), "дентал", "Имплантация")

	assert.Len(t, result, 1)
	assert.Equal(t, 2, result[0].ID)

	// Same query, wrong service: the conjunction fails.
	assert.Empty(t, filter.Apply(sampleClinics(), "дентал", "Детская стоматология"))
}

func TestApply_PreservesOrder(t *testing.T) {
	clinics := sampleClinics()
	result := filter.Apply(clinics, "казань", "")

	assert.Len(t, result, 3)
	for i, clinic := range result {
		assert.Equal(t, clinics[i].ID, clinic.ID)
	}
}

func TestApply_Idempotent(t *testing.T) {
	once := filter.Apply(sampleClinics(), "казань", "Имплантация")
	twice := filter.Apply(once, "казань", "Имплантация")

	assert.Equal(t, once, twice)
}

func TestApply_NoMatches(t *testing.T) {
	assert.Empty(t, filter.Apply(sampleClinics(), "москва", ""))
}

func TestServices_OrderedUnion(t *testing.T) {
	services := filter.Services(sampleClinics())

	assert.Equal(t, []string{"Имплантация", "Отбеливание", "Виниры", "Детская стоматология"}, services)
}
