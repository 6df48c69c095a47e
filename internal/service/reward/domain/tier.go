// internal/service/reward/domain/tier.go
package domain

// Tier 是由累计积分推导出的用户等级，1 到 5
type Tier int

const (
	TierBronze Tier = iota + 1
	TierSilver
	TierGold
	TierPlatinum
	TierDiamond
)

// 各等级的最低积分，按等级降序
var tierThresholds = []struct {
	tier Tier
	min  int64
}{
	{TierDiamond, 5000},
	{TierPlatinum, 2000},
	{TierGold, 1000},
	{TierSilver, 500},
}

var tierNames = map[Tier]string{
	TierBronze:   "Bronze",
	TierSilver:   "Silver",
	TierGold:     "Gold",
	TierPlatinum: "Platinum",
	TierDiamond:  "Diamond",
}

// TierFor 由积分推导等级，阈值含端点
func TierFor(points int64) Tier {
	for _, t := range tierThresholds {
		if points >= t.min {
			return t.tier
		}
	}
	return TierBronze
}

// Name 返回等级的展示名称
func (t Tier) Name() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return tierNames[TierBronze]
}

// PointsToNextTier 返回距离下一等级还差的积分，最高等级返回 0
func PointsToNextTier(points int64) int64 {
	current := TierFor(points)
	if current == TierDiamond {
		return 0
	}
	for _, t := range tierThresholds {
		if t.tier == current+1 {
			return t.min - points
		}
	}
	return 0
}
