package condition

// BaseCondition 基础条件，包含所有条件的通用字段和方法
type BaseCondition struct {
	Name        string
	Description string
	Field       string // dev_dump / liquidity / honeypot / *
	Operator    string // ">=", ">", "<=", "<", "=="
}

func (c *BaseCondition) GetName() string {
	return c.Name
}

func (c *BaseCondition) GetDescription() string {
	return c.Description
}

// CompareFloat64 统一的float64比较方法
func (c *BaseCondition) CompareFloat64(value, threshold float64) bool {
	switch c.Operator {
	case ">=":
		return value >= threshold
	case ">":
		return value > threshold
	case "<=":
		return value <= threshold
	case "<":
		return value < threshold
	case "==":
		return value == threshold
	default:
		return false
	}
}
