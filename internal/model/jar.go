package model

// JarType is one of the six budget jars every transaction is assigned to.
type JarType string

// The six jars. Values are the wire and storage representation.
const (
	JarNecessities      JarType = "necessities"
	JarPlay             JarType = "play"
	JarEducation        JarType = "education"
	JarFinancialFreedom JarType = "financial_freedom"
	JarLongTermSavings  JarType = "long_term_savings"
	JarGive             JarType = "give"
)

// AllJars returns every jar in a stable order.
func AllJars() []JarType {
	return []JarType{
		JarNecessities,
		JarPlay,
		JarEducation,
		JarFinancialFreedom,
		JarLongTermSavings,
		JarGive,
	}
}

// Valid reports whether j is one of the six jars.
func (j JarType) Valid() bool {
	switch j {
	case JarNecessities, JarPlay, JarEducation, JarFinancialFreedom, JarLongTermSavings, JarGive:
		return true
	}
	return false
}
