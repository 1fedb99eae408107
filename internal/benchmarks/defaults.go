package benchmarks

// Default returns the standard benchmark set. Every call returns fresh maps
// and slices so callers may modify the result freely.
func Default() Benchmarks {
	return Benchmarks{
		Deal:   DefaultDeal(),
		Market: DefaultMarket(),
	}
}

// DefaultDeal returns the operator targets used for deal evaluation.
func DefaultDeal() DealBenchmarks {
	return DealBenchmarks{
		TargetEBITDAMargin:         0.09,
		TargetEBITDARMargin:        0.23,
		DefaultOccupancy:           0.75,
		TargetOccupancy:            0.85,
		HighRiskOccupancy:          0.75,
		StrongPositionOccupancy:    0.90,
		ModeratePositionOccupancy:  0.80,
		DefaultCapRate:             0.125,
		DefaultStateRiskAdjustment: 0.01,
		StateRiskAdjustments: map[string]float64{
			"ID": 0.0,
			"MT": 0.0,
			"UT": 0.0,
			"WA": 0.0025,
			"AZ": 0.0025,
			"OR": 0.005,
			"NV": 0.005,
			"CO": 0.005,
			"TX": 0.0075,
			"CA": 0.0075,
			"NY": 0.015,
			"IL": 0.015,
		},
		CostOfCapital:       0.10,
		PublicREITMinYield:  0.09,
		PrivateREITMinYield: 0.10,
		MinCoverageRatio:    1.4,
		DefaultReimbursement: ReimbursementRates{
			Medicare: 400,
			Medicaid: 250,
		},
		Reimbursement: map[string]ReimbursementRates{
			"ID": {Medicare: 520, Medicaid: 265},
			"MT": {Medicare: 505, Medicaid: 255},
			"UT": {Medicare: 530, Medicaid: 245},
			"WA": {Medicare: 590, Medicaid: 310},
			"OR": {Medicare: 575, Medicaid: 340},
			"AZ": {Medicare: 545, Medicaid: 250},
			"CA": {Medicare: 640, Medicaid: 285},
			"NV": {Medicare: 560, Medicaid: 240},
			"CO": {Medicare: 555, Medicaid: 270},
			"TX": {Medicare: 500, Medicaid: 205},
		},
		MarketTrends: []string{
			"Aging 85+ population increasing post-acute demand",
			"Medicaid rate pressure in most states",
			"Clinical staffing costs rising faster than reimbursement",
		},
		DealLevelRisk: true,
	}
}

// DefaultMarket returns the national reference values and weights used for
// market scoring.
func DefaultMarket() MarketBenchmarks {
	return MarketBenchmarks{
		Demand: DemandBenchmarks{
			Pop65Reference: 50000,
			Pop65Scale:     70,
			Pop85Reference: 8000,
			Pop85Scale:     80,
			NeedReference:  2000,
			NeedScale:      75,
			NeedRate:       0.025,
			Pop65Weight:    0.30,
			Pop85Weight:    0.35,
			NeedWeight:     0.35,
		},
		AbilityToPay: AbilityToPayBenchmarks{
			IncomeReference:        120000,
			HomeValueReference:     500000,
			PovertyReference:       20,
			HomeownershipReference: 80,
			IncomeWeight:           0.35,
			HomeValueWeight:        0.30,
			PovertyWeight:          0.20,
			HomeownershipWeight:    0.15,
		},
		Competition: CompetitionBenchmarks{
			NationalBedsPerThousand65: 17.4,
			PenetrationIntercept:      120,
			PenetrationSlope:          60,
			GapBase:                   50,
			OccupancyFloor:            50,
			OccupancyScale:            2.5,
			NeutralOccupancyScore:     50,
			NewSupplyPenalty:          5,
			SNF: CompetitionWeights{
				Penetration: 0.30,
				Gap:         0.35,
				Occupancy:   0.25,
			},
			ALF: CompetitionWeights{
				Penetration: 0.40,
				Gap:         0.50,
			},
		},
		Growth: GrowthBenchmarks{
			Growth65Reference: 30,
			Growth85Reference: 35,
			Growth65Weight:    0.3,
			Growth85Weight:    0.7,
		},
		Labor: LaborBenchmarks{
			NationalCNAWage:               18.50,
			WagePenaltySlope:              200,
			UnemploymentReference:         2.0,
			DefaultHealthcareUnemployment: 2.0,
			DefaultCBSAWageIndex:          1.0,
			WageWeight:                    0.7,
			UnemploymentWeight:            0.3,
		},
		Quality: QualityBenchmarks{
			RatingScale:         5,
			DeficiencyReference: 15,
			SpecialFocusPenalty: 15,
			RatingWeight:        0.6,
			DeficiencyWeight:    0.4,
		},
		GradeWeights: GradeWeightSets{
			SNFWithQuality: GradeWeights{
				Demand:       0.15,
				AbilityToPay: 0.20,
				Competition:  0.15,
				Growth:       0.15,
				Labor:        0.20,
				Quality:      0.15,
			},
			Standard: GradeWeights{
				Demand:       0.20,
				AbilityToPay: 0.25,
				Competition:  0.20,
				Growth:       0.15,
				Labor:        0.20,
			},
		},
		GradeScale: []GradeThreshold{
			{Min: 95, Letter: "A+"},
			{Min: 90, Letter: "A"},
			{Min: 85, Letter: "A-"},
			{Min: 80, Letter: "B+"},
			{Min: 75, Letter: "B"},
			{Min: 70, Letter: "B-"},
			{Min: 65, Letter: "C+"},
			{Min: 60, Letter: "C"},
			{Min: 55, Letter: "C-"},
			{Min: 50, Letter: "D+"},
			{Min: 45, Letter: "D"},
			{Min: 40, Letter: "D-"},
		},
	}
}
