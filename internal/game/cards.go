package game

const (
	DefaultBackstabBonus = 2000
	PaladinBlockBonus    = 1000
	FireballDamage       = 3000
	FireballBackfire     = 2000
	HealingAmount        = 2000
)

// Catalog returns fresh copies of the built-in card templates.
func Catalog() []*Template {
	return []*Template{
		Warrior(), Rogue(), Mage(), Archer(),
		Paladin(), Knight(), Assassin(), Archmage(), Ranger(),
		Fireball(), Healing(), SmokeBomb(),
		Squire(), Scholar(),
	}
}

// --- Basic creatures ---

func Warrior() *Template {
	return &Template{
		ID:          "warrior",
		Name:        "Warrior",
		Description: "A steady front-line fighter.",
		Type:        CardTypeCreature,
		Class:       ClassBasic,
		Cost:        2,
		Stats:       Stats{STR: 20, VIT: 15, DEX: 10, INT: 0, EXP: 5},
		Evolutions:  []string{"paladin", "knight"},
	}
}

func Rogue() *Template {
	return &Template{
		ID:          "rogue",
		Name:        "Rogue",
		Description: "Slips past defenders to strike security once.",
		Type:        CardTypeCreature,
		Class:       ClassBasic,
		Cost:        2,
		Stats:       Stats{STR: 10, VIT: 5, DEX: 25, INT: 5, EXP: 5},
		Ability:     "Stealth",
		Evolutions:  []string{"assassin"},
		Caps:        Capabilities{Stealth: true},
	}
}

func Mage() *Template {
	return &Template{
		ID:          "mage",
		Name:        "Mage",
		Description: "Attacks from two squares away. Draw a card when played.",
		Type:        CardTypeCreature,
		Class:       ClassBasic,
		Cost:        3,
		Stats:       Stats{STR: 0, VIT: 10, DEX: 5, INT: 30, EXP: 5},
		Ability:     "Arcane Draw",
		Evolutions:  []string{"archmage"},
		Caps:        Capabilities{AttackRange: 2, DrawOnPlay: true},
	}
}

func Archer() *Template {
	return &Template{
		ID:          "archer",
		Name:        "Archer",
		Description: "Attacks from three squares away.",
		Type:        CardTypeCreature,
		Class:       ClassBasic,
		Cost:        3,
		Stats:       Stats{STR: 10, VIT: 5, DEX: 30, INT: 0, EXP: 5},
		Ability:     "Longshot",
		Evolutions:  []string{"ranger"},
		Caps:        Capabilities{AttackRange: 3},
	}
}

// --- Advanced creatures ---

func Paladin() *Template {
	return &Template{
		ID:          "paladin",
		Name:        "Paladin Guard",
		Description: "Gains +1000 CP when defending.",
		Type:        CardTypeCreature,
		Class:       ClassAdvanced,
		Cost:        5,
		Stats:       Stats{STR: 30, VIT: 45, DEX: 10, INT: 5, EXP: 10},
		Ability:     "Block",
		EvolvesFrom: "warrior",
		Caps:        Capabilities{BlockBonus: PaladinBlockBonus},
	}
}

func Knight() *Template {
	return &Template{
		ID:          "knight",
		Name:        "Knight",
		Description: "Survives any attack it wins.",
		Type:        CardTypeCreature,
		Class:       ClassAdvanced,
		Cost:        5,
		Stats:       Stats{STR: 45, VIT: 30, DEX: 15, INT: 0, EXP: 10},
		Ability:     "First Strike",
		EvolvesFrom: "warrior",
		Caps:        Capabilities{FirstStrike: true},
	}
}

func Assassin() *Template {
	return &Template{
		ID:          "assassin",
		Name:        "Assassin",
		Description: "Stealth. +2000 CP when attacking from the back row.",
		Type:        CardTypeCreature,
		Class:       ClassAdvanced,
		Cost:        5,
		Stats:       Stats{STR: 25, VIT: 10, DEX: 50, INT: 5, EXP: 10},
		Ability:     "Backstab",
		EvolvesFrom: "rogue",
		Caps:        Capabilities{Stealth: true, Backstab: true, BackstabBonus: DefaultBackstabBonus},
	}
}

func Archmage() *Template {
	return &Template{
		ID:          "archmage",
		Name:        "Archmage",
		Description: "A master of ranged spellcraft.",
		Type:        CardTypeCreature,
		Class:       ClassAdvanced,
		Cost:        6,
		Stats:       Stats{STR: 0, VIT: 20, DEX: 10, INT: 60, EXP: 10},
		Ability:     "Arcane Reach",
		EvolvesFrom: "mage",
		Caps:        Capabilities{AttackRange: 2},
	}
}

func Ranger() *Template {
	return &Template{
		ID:          "ranger",
		Name:        "Ranger",
		Description: "Strikes anywhere within three squares.",
		Type:        CardTypeCreature,
		Class:       ClassAdvanced,
		Cost:        6,
		Stats:       Stats{STR: 20, VIT: 10, DEX: 60, INT: 0, EXP: 10},
		Ability:     "Longshot",
		EvolvesFrom: "archer",
		Caps:        Capabilities{AttackRange: 3},
	}
}

// --- Spells ---

func Fireball() *Template {
	return &Template{
		ID:          "fireball",
		Name:        "Fireball",
		Description: "Deal 3000 damage to a creature.",
		Type:        CardTypeSpell,
		Cost:        2,
		Spell:       &SpellEffect{Kind: SpellDamage, Amount: FireballDamage, Description: "3000 damage"},
		Security: &SecurityEffect{
			Kind:        SecurityDamageAttacker,
			Amount:      FireballBackfire,
			Description: "deals 2000 damage to the attacker",
		},
	}
}

func Healing() *Template {
	return &Template{
		ID:          "healing",
		Name:        "Healing",
		Description: "Restore 2000 CP to a creature.",
		Type:        CardTypeSpell,
		Cost:        1,
		Spell:       &SpellEffect{Kind: SpellHeal, Amount: HealingAmount, Description: "restores 2000 CP"},
		Security: &SecurityEffect{
			Kind:        SecurityReturnToHand,
			Description: "returns to its owner's hand",
		},
	}
}

func SmokeBomb() *Template {
	return &Template{
		ID:          "smoke_bomb",
		Name:        "Smoke Bomb",
		Description: "Obscures the battlefield.",
		Type:        CardTypeSpell,
		Cost:        1,
		Spell:       &SpellEffect{Kind: SpellNoop, Description: "smoke fills the field"},
		Security:    &SecurityEffect{Kind: SecurityDiscard, Description: "dissipates"},
	}
}

// --- Apprentices ---

func Squire() *Template {
	return &Template{
		ID:          "squire",
		Name:        "Squire",
		Description: "Summoned creatures gain +5 STR.",
		Type:        CardTypeApprentice,
		Cost:        1,
		Passive:     &Passive{Stat: STR, Amount: 5, Description: "+5 STR"},
	}
}

func Scholar() *Template {
	return &Template{
		ID:          "scholar",
		Name:        "Scholar",
		Description: "Summoned creatures gain +5 INT.",
		Type:        CardTypeApprentice,
		Cost:        1,
		Passive:     &Passive{Stat: INT, Amount: 5, Description: "+5 INT"},
	}
}
