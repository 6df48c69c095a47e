// internal/service/reward/domain/equivalence.go
package domain

import "github.com/shopspring/decimal"

// 换算系数
var (
	kgCo2PerTreeYear = decimal.NewFromInt(21)
	kgCo2PerKmDriven = decimal.RequireFromString("0.12")
	litersWaterPerKg = decimal.NewFromInt(100)
	plasticBagsPerKg = decimal.NewFromInt(10)
)

// Equivalences 把碳减排量换算成直观的生活化数字
type Equivalences struct {
	Trees       int64 `json:"trees"`
	KmDriven    int64 `json:"km_driven"`
	LitersWater int64 `json:"liters_water"`
	PlasticBags int64 `json:"plastic_bags"`
}

// EquivalencesFor 按固定系数换算并四舍五入（远离零）；负数同样按公式计算
func EquivalencesFor(totalCo2Kg decimal.Decimal) Equivalences {
	return Equivalences{
		Trees:       totalCo2Kg.Div(kgCo2PerTreeYear).Round(0).IntPart(),
		KmDriven:    totalCo2Kg.Div(kgCo2PerKmDriven).Round(0).IntPart(),
		LitersWater: totalCo2Kg.Mul(litersWaterPerKg).Round(0).IntPart(),
		PlasticBags: totalCo2Kg.Mul(plasticBagsPerKg).Round(0).IntPart(),
	}
}
