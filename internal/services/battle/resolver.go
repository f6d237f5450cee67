package battle

import (
	"github.com/mcoot/battle-royale/internal/dependencies/random"
	"github.com/mcoot/battle-royale/internal/model"
)

// Combat tuning
const (
	MaxBaseDamage      = 10 // base damage is rolled uniformly from [1, MaxBaseDamage]
	CriticalThreshold  = 95 // a roll in [0, 100) above this is a critical hit
	CriticalMultiplier = 3
)

// Resolver simulates combat rounds
type Resolver struct {
	random  random.Random
	weapons []Weapon
}

// New creates a Resolver using the default weapon catalog
func New(rnd random.Random) *Resolver {
	return NewWithWeapons(rnd, DefaultWeapons)
}

// NewWithWeapons creates a Resolver with a custom weapon catalog
func NewWithWeapons(rnd random.Random, weapons []Weapon) *Resolver {
	if len(weapons) == 0 {
		weapons = DefaultWeapons
	}
	return &Resolver{
		random:  rnd,
		weapons: weapons,
	}
}

// ResolveRound plays one round: every player alive at its turn attacks a random living enemy.
// Attacks are applied in roster order, so later attackers see earlier damage.
// The inputs are not modified; the new round is appended to a copy of previousRounds.
func (r *Resolver) ResolveRound(previousRounds []model.Round, players []model.Player) ([]model.Round, []model.Player) {
	roundNumber := len(previousRounds) + 1
	roster := model.ClonePlayers(players)
	attacks := []model.Attack{}

	for i := range roster {
		if !roster[i].IsAlive() {
			continue
		}
		attacks = append(attacks, r.attack(roster, i, roundNumber))
	}

	rounds := model.CloneRounds(previousRounds)
	if rounds == nil {
		rounds = []model.Round{}
	}
	rounds = append(rounds, model.Round{Number: roundNumber, Attacks: attacks})

	return rounds, roster
}

// attack resolves a single attack by roster[attackerIdx], updating the roster in place
func (r *Resolver) attack(roster []model.Player, attackerIdx int, roundNumber int) model.Attack {
	attacker := roster[attackerIdx]

	var enemies []int
	for i, p := range roster {
		if i != attackerIdx && p.IsAlive() {
			enemies = append(enemies, i)
		}
	}

	// Last player standing has nobody to hit
	if len(enemies) == 0 {
		return model.Attack{PlayerName: attacker.Name}
	}

	enemyIdx := enemies[r.random.Intn(len(enemies))]
	weapon := r.weapons[r.random.Intn(len(r.weapons))]
	damage := r.random.Intn(MaxBaseDamage) + 1
	isCriticalHit := r.random.Float64()*100 > CriticalThreshold
	if isCriticalHit {
		damage *= CriticalMultiplier
	}

	enemy := &roster[enemyIdx]
	enemy.HP = max(0, enemy.HP-damage)
	isDeathblow := enemy.HP == 0
	if isDeathblow && enemy.DiedAtRound == nil {
		died := roundNumber
		enemy.DiedAtRound = &died
	}

	return model.Attack{
		PlayerName:    attacker.Name,
		EnemyName:     enemy.Name,
		Weapon:        weapon.String(),
		Damage:        damage,
		IsCriticalHit: isCriticalHit,
		IsDeathblow:   isDeathblow,
		NewEnemyHP:    enemy.HP,
	}
}

// ServiceInterface for dependency injection
type ServiceInterface interface {
	ResolveRound(previousRounds []model.Round, players []model.Player) ([]model.Round, []model.Player)
}

var _ ServiceInterface = (*Resolver)(nil)
