package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReputationScoreBasic(t *testing.T) {
	// Sole owner, no decay: 20% of 100 sold.
	got := ReputationScore(ScoreInput{BaseFanRate: 20, UnlockedPlayerCount: 1, TotalSold: 100, AdScore: 0})
	assert.InDelta(t, 20.0, got, 1e-9)
}

func TestReputationScoreDecayPerUnlockingPlayer(t *testing.T) {
	// Each additional player sharing the recipe removes 5 points of fan rate.
	got := ReputationScore(ScoreInput{BaseFanRate: 20, UnlockedPlayerCount: 3, TotalSold: 100, AdScore: 0})
	assert.InDelta(t, 10.0, got, 1e-9)
}

func TestReputationScoreDecayFloor(t *testing.T) {
	// Fan rate never decays below 5 percent.
	got := ReputationScore(ScoreInput{BaseFanRate: 20, UnlockedPlayerCount: 10, TotalSold: 200, AdScore: 0})
	assert.InDelta(t, 0.05*200, got, 1e-9)
}

func TestReputationScoreAdOnly(t *testing.T) {
	got := ReputationScore(ScoreInput{BaseFanRate: 5, UnlockedPlayerCount: 2, TotalSold: 0, AdScore: 3})
	assert.InDelta(t, 3.0, got, 1e-9)
}

func TestReputationScoreAlwaysPositive(t *testing.T) {
	// Zero history and zero ad score still yields a positive score so the
	// low-tier pass never filters a fresh product out forever.
	for _, unlocked := range []int{1, 2, 3, 4} {
		got := ReputationScore(ScoreInput{BaseFanRate: 5, UnlockedPlayerCount: unlocked, TotalSold: 0, AdScore: 0})
		assert.Greater(t, got, 0.0, "unlocked=%d", unlocked)
	}
}

func TestReputationScoreCombinesAdAndHistory(t *testing.T) {
	// ad 6 + 5% of 40 sold.
	got := ReputationScore(ScoreInput{BaseFanRate: 5, UnlockedPlayerCount: 1, TotalSold: 40, AdScore: 6})
	assert.InDelta(t, 6.0+0.05*40, got, 1e-9)
}
