package classify

import (
	"strings"

	"github.com/sixjars/jarflow/internal/model"
)

// defaultJarTable maps fine-grained categories to budget jars. Supplied
// as configuration; overridable per deployment without a code change.
var defaultJarTable = map[string]model.JarType{
	"groceries":      model.JarNecessities,
	"rent":           model.JarNecessities,
	"utilities":      model.JarNecessities,
	"transportation": model.JarNecessities,
	"insurance":      model.JarNecessities,
	"healthcare":     model.JarNecessities,
	"dining":         model.JarPlay,
	"entertainment":  model.JarPlay,
	"shopping":       model.JarPlay,
	"travel":         model.JarPlay,
	"education":      model.JarEducation,
	"courses":        model.JarEducation,
	"books":          model.JarEducation,
	"investment":     model.JarFinancialFreedom,
	"savings":        model.JarLongTermSavings,
	"retirement":     model.JarLongTermSavings,
	"donation":       model.JarGive,
	"charity":        model.JarGive,
	"gifts":          model.JarGive,
}

// JarMapper translates a category label into one of the six budget jars.
type JarMapper struct {
	table map[string]model.JarType
}

// NewJarMapper builds a mapper from the default table with the given
// overrides applied on top. Override keys are lower-cased.
func NewJarMapper(overrides map[string]model.JarType) *JarMapper {
	table := make(map[string]model.JarType, len(defaultJarTable)+len(overrides))
	for category, jar := range defaultJarTable {
		table[category] = jar
	}
	for category, jar := range overrides {
		table[strings.ToLower(category)] = jar
	}
	return &JarMapper{table: table}
}

// ToJar looks up the jar for a category, case-insensitively. Categories
// absent from the table map to the necessities jar: an unrecognized
// expense is assumed essential rather than silently dropped.
func (m *JarMapper) ToJar(category string) model.JarType {
	if jar, ok := m.table[strings.ToLower(category)]; ok {
		return jar
	}
	return model.JarNecessities
}

// Categories returns every category the mapper knows about.
func (m *JarMapper) Categories() []string {
	categories := make([]string, 0, len(m.table))
	for category := range m.table {
		categories = append(categories, category)
	}
	return categories
}
