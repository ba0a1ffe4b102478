package domain

// DefaultScenarios is the built-in scenario deck used when no external deck
// file is configured. Effects are balanced around the 50-point baseline.
var DefaultScenarios = []Scenario{
	{
		ID:        "drought",
		Title:     "Drought in the Provinces",
		Narrative: "Reservoirs are running dry and harvests are failing in the outer provinces.",
		Options: []ScenarioOption{
			{ID: "emergency_relief", Label: "Ship emergency relief", Effects: ResourceDelta{Treasury: -12, Welfare: 10, Stability: 4}},
			{ID: "ration_water", Label: "Impose water rationing", Effects: ResourceDelta{Welfare: -6, Stability: -4, Infrastructure: 2}},
			{ID: "drill_wells", Label: "Fund deep wells", Effects: ResourceDelta{Treasury: -8, Infrastructure: 8}},
		},
	},
	{
		ID:        "border_tariffs",
		Title:     "Neighbors Raise Tariffs",
		Narrative: "A neighboring state has doubled tariffs on exported goods overnight.",
		Options: []ScenarioOption{
			{ID: "retaliate", Label: "Retaliate with tariffs", Effects: ResourceDelta{Treasury: 6, Stability: -6, Welfare: -4}},
			{ID: "negotiate", Label: "Send a trade delegation", Effects: ResourceDelta{Treasury: -4, Stability: 6}},
			{ID: "subsidize", Label: "Subsidize exporters", Effects: ResourceDelta{Treasury: -10, Welfare: 6}},
		},
	},
	{
		ID:        "bridge_collapse",
		Title:     "The Old Bridge Collapses",
		Narrative: "The main trade bridge has collapsed, cutting off the eastern district.",
		Options: []ScenarioOption{
			{ID: "rebuild_stone", Label: "Rebuild in stone", Effects: ResourceDelta{Treasury: -15, Infrastructure: 12}},
			{ID: "pontoon", Label: "Lay a pontoon crossing", Effects: ResourceDelta{Treasury: -5, Infrastructure: 4, Welfare: 2}},
			{ID: "reroute", Label: "Reroute trade south", Effects: ResourceDelta{Welfare: -5, Stability: -3, Treasury: 3}},
		},
	},
	{
		ID:        "plague_rumors",
		Title:     "Rumors of Plague",
		Narrative: "Travelers speak of sickness in the port towns. Panic spreads faster than proof.",
		Options: []ScenarioOption{
			{ID: "quarantine", Label: "Quarantine the ports", Effects: ResourceDelta{Treasury: -8, Welfare: 4, Stability: -5}},
			{ID: "physicians", Label: "Dispatch physicians", Effects: ResourceDelta{Treasury: -10, Welfare: 8, Stability: 3}},
			{ID: "dismiss", Label: "Publicly dismiss the rumors", Effects: ResourceDelta{Stability: 4, Welfare: -6}},
		},
	},
	{
		ID:        "miners_strike",
		Title:     "Miners Down Tools",
		Narrative: "The silver mines have gone quiet. The miners demand safer shafts and better pay.",
		Options: []ScenarioOption{
			{ID: "meet_demands", Label: "Meet their demands", Effects: ResourceDelta{Treasury: -10, Welfare: 8, Stability: 5}},
			{ID: "break_strike", Label: "Break the strike", Effects: ResourceDelta{Treasury: 5, Welfare: -8, Stability: -8}},
			{ID: "arbitrate", Label: "Appoint an arbiter", Effects: ResourceDelta{Treasury: -4, Stability: 3, Infrastructure: 2}},
		},
	},
	{
		ID:        "festival",
		Title:     "The Founding Festival",
		Narrative: "The city's founding festival approaches. The guilds ask how grand it should be.",
		Options: []ScenarioOption{
			{ID: "grand_festival", Label: "Fund a grand festival", Effects: ResourceDelta{Treasury: -8, Welfare: 8, Stability: 4}},
			{ID: "modest_fair", Label: "Hold a modest fair", Effects: ResourceDelta{Treasury: -3, Welfare: 4}},
			{ID: "cancel", Label: "Cancel the festivities", Effects: ResourceDelta{Treasury: 2, Welfare: -6, Stability: -3}},
		},
	},
	{
		ID:        "foreign_investors",
		Title:     "Foreign Investors Arrive",
		Narrative: "A consortium offers to finance new works in exchange for trading privileges.",
		Options: []ScenarioOption{
			{ID: "accept_terms", Label: "Accept their terms", Effects: ResourceDelta{Treasury: 12, Infrastructure: 6, Stability: -5}},
			{ID: "counter_offer", Label: "Counter with stricter terms", Effects: ResourceDelta{Treasury: 5, Infrastructure: 3}},
			{ID: "turn_away", Label: "Turn them away", Effects: ResourceDelta{Stability: 4, Treasury: -2}},
		},
	},
	{
		ID:        "grain_surplus",
		Title:     "An Unexpected Surplus",
		Narrative: "Granaries overflow after a record harvest. The council must decide what to do with it.",
		Options: []ScenarioOption{
			{ID: "sell_abroad", Label: "Sell the surplus abroad", Effects: ResourceDelta{Treasury: 10, Welfare: -2}},
			{ID: "public_stores", Label: "Fill the public stores", Effects: ResourceDelta{Welfare: 7, Stability: 3, Treasury: -2}},
			{ID: "distill", Label: "License the distilleries", Effects: ResourceDelta{Treasury: 6, Stability: -2, Welfare: 2}},
		},
	},
	{
		ID:        "aqueduct_leak",
		Title:     "The Aqueduct Leaks",
		Narrative: "Engineers warn the aqueduct loses a third of its flow before reaching the city.",
		Options: []ScenarioOption{
			{ID: "full_repair", Label: "Commission full repairs", Effects: ResourceDelta{Treasury: -12, Infrastructure: 10, Welfare: 3}},
			{ID: "patch", Label: "Patch the worst sections", Effects: ResourceDelta{Treasury: -4, Infrastructure: 4}},
			{ID: "defer", Label: "Defer to next season", Effects: ResourceDelta{Infrastructure: -6, Welfare: -3}},
		},
	},
	{
		ID:        "smuggling_ring",
		Title:     "Smuggling Ring Uncovered",
		Narrative: "Customs officers uncover an organized ring moving untaxed goods through the docks.",
		Options: []ScenarioOption{
			{ID: "crackdown", Label: "Order a crackdown", Effects: ResourceDelta{Treasury: 6, Stability: 2, Welfare: -4}},
			{ID: "amnesty", Label: "Offer amnesty for back taxes", Effects: ResourceDelta{Treasury: 4, Stability: 3}},
			{ID: "look_away", Label: "Look the other way", Effects: ResourceDelta{Stability: -5, Treasury: -3, Welfare: 2}},
		},
	},
}
