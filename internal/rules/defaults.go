package rules

// namePart matches one capitalized word of a company name.
const namePart = `[A-Z][A-Za-z0-9&'.-]*`

// nameRun matches one to four capitalized words.
const nameRun = namePart + `(?:\s+` + namePart + `){0,3}`

// Default returns the built-in rule set.
func Default() Rules {
	return Rules{
		MinTitleLength:    8,
		MinAlphaRun:       3,
		MinAlphaCharCount: 5,
		SpamPhrases: []string{
			"make money", "click here", "get rich", "$$$", "guaranteed income",
			"cash daily", "free money", "crypto giveaway", "casino",
		},
		KnownLocations: defaultLocations(),

		CompanyNamePatterns: []string{
			`\bat\s+(` + nameRun + `)`,
			`^(` + nameRun + `)\s+(?:is\s+hiring|is\s+seeking|seeks|needs)\b`,
			`(?:[Jj]oin)\s+(?:the\s+)?(` + nameRun + `)\s+(?:[Tt]eam|[Ff]amily)`,
			`(` + nameRun + `\s+(?:LLC|Inc|Corp|Co|Ltd|Company))\b`,
		},
		LegalSuffixes: []string{
			"llc", "inc", "incorporated", "corp", "corporation", "co", "company",
			"ltd", "limited", "lp", "llp", "pllc", "pc",
		},
		NameStopwords: []string{
			"a", "an", "the", "our", "us", "we", "you", "your", "my", "this", "that", "their",
			"home", "team", "family", "company", "crew", "staff", "work", "job", "jobs",
			"careers", "hiring", "now", "today", "here", "great", "growing", "local",
			"confidential", "anonymous", "employer", "client", "private",
		},
		MinCompanyKeyLength: 2,

		MinListingsPerCompany: 3,
		TopN:                  30,
		EvidenceCap:           5,

		Weights: Weights{
			HiringVelocity:      0.30,
			GrowthSignals:       0.40,
			ExpansionIndicators: 0.20,
			OperationalMaturity: 0.10,
		},
		VelocityThresholds: []Threshold{
			{MinListings: 1, Points: 0},
			{MinListings: 2, Points: 15},
			{MinListings: 3, Points: 35},
			{MinListings: 5, Points: 50},
			{MinListings: 7, Points: 60},
			{MinListings: 10, Points: 70},
		},
		Multipliers: Multipliers{
			ExpansionLanguage: 2.0,
			CrossFunctional:   1.5,
			StressSignals:     1.3,
			StressMinCount:    2,
		},
		Tiers: TierBoundaries{Hot: 80, Qualified: 60, Potential: 40},
		RedFlagPatterns: []Pattern{
			{Name: "commission_only", Regex: `commission[\s-]*only`},
			{Name: "contractor_1099", Regex: `\b1099\b`},
			{Name: "upfront_fee", Regex: `(?:training|starter|registration)\s+fee|pay\s+to\s+start|investment\s+required`},
			{Name: "mlm", Regex: `\bmlm\b|multi[\s-]*level\s+marketing|network\s+marketing`},
			{Name: "unpaid", Regex: `\bunpaid\b`},
			{Name: "be_your_own_boss", Regex: `be\s+your\s+own\s+boss`},
			{Name: "pyramid", Regex: `\bpyramid\b`},
		},
		RedFlagThreshold: 2,

		JobCategories: []Category{
			{Name: "sales", Keywords: []string{"sales", "account executive", "business development", "closer"}},
			{Name: "marketing", Keywords: []string{"marketing", "seo", "social media", "brand ambassador", "copywriter"}},
			{Name: "operations", Keywords: []string{"operations", "logistics", "general manager", "branch manager"}},
			{Name: "admin", Keywords: []string{"admin", "receptionist", "office manager", "assistant", "clerk", "bookkeeper"}},
			{Name: "drivers", Keywords: []string{"driver", "cdl", "courier", "delivery"}},
			{Name: "technicians", Keywords: []string{"technician", "installer", "hvac", "electrician", "plumber", "mechanic"}},
			{Name: "customer_service", Keywords: []string{"customer service", "call center", "customer support", "support representative"}},
			{Name: "fulfillment", Keywords: []string{"fulfillment", "warehouse", "picker", "packer", "shipping"}},
			{Name: "engineering", Keywords: []string{"engineer", "developer", "software", "programmer"}},
		},
		ExpansionPhrases: []string{
			"we're expanding", "we are expanding", "expanding our team", "new location",
			"new office", "opening soon", "grand opening", "rapidly growing", "fast-growing",
			"fast growing", "expansion", "new branch", "now opening", "second location",
		},
		RevenueRoles: []Category{
			{Name: "sales", Keywords: []string{"sales rep", "sales representative", "account executive", "sales associate", "inside sales", "outside sales", "business development"}},
			{Name: "appointment_setter", Keywords: []string{"appointment setter", "appointment setting", "canvasser", "lead generation"}},
			{Name: "customer_success", Keywords: []string{"customer success", "account manager"}},
			{Name: "technician", Keywords: []string{"technician", "installer", "service tech"}},
			{Name: "driver", Keywords: []string{"driver", "cdl", "courier"}},
			{Name: "dispatcher", Keywords: []string{"dispatcher", "dispatch"}},
			{Name: "project_coordinator", Keywords: []string{"project coordinator", "project manager"}},
			{Name: "fulfillment", Keywords: []string{"fulfillment", "order picker", "warehouse associate"}},
		},
		VolumePatterns: []Pattern{
			{Name: "hiring_n", Regex: `hiring\s+\d+\+?`},
			{Name: "need_n", Regex: `need\s+\d+`},
			{Name: "n_positions", Regex: `\d+\s+(?:open\s+)?(?:positions|openings|roles)`},
			{Name: "multiple_x", Regex: `\bmultiple\s+(?:open\s+)?[a-z]+`},
		},
		VolumeKeywords: []string{
			"mass hiring", "hiring event", "bulk hiring", "immediate openings",
			"several openings", "many openings",
		},
		StressPhrases: []string{
			"start immediately", "immediate start", "can't keep up", "cannot keep up",
			"overtime available", "urgently hiring", "urgent need", "busy season",
			"high demand", "backlog", "sign-on bonus", "sign on bonus",
		},
		TechCategories: []Category{
			{Name: "crm_systems", Keywords: []string{"salesforce", "hubspot", "crm", "zoho", "pipedrive"}},
			{Name: "scheduling", Keywords: []string{"servicetitan", "housecall pro", "jobber", "calendly", "scheduling software"}},
			{Name: "accounting", Keywords: []string{"quickbooks", "xero", "netsuite", "freshbooks"}},
			{Name: "automation", Keywords: []string{"zapier", "automation", "workflow automation"}},
			{Name: "data_tools", Keywords: []string{"microsoft excel", "advanced excel", "tableau", "power bi", "sql", "looker"}},
		},
		StructuredRecruitingPhrases: []string{
			"interview process", "onboarding program", "paid training", "training program",
			"career path", "benefits package", "401(k)", "401k", "equal opportunity employer",
			"background check", "applicant tracking", "structured interview",
		},
	}
}

func defaultLocations() []string {
	return []string{
		"remote", "usa", "united states", "nationwide", "anywhere",
		"alabama", "alaska", "arizona", "arkansas", "california", "colorado", "connecticut",
		"delaware", "florida", "georgia", "hawaii", "idaho", "illinois", "indiana", "iowa",
		"kansas", "kentucky", "louisiana", "maine", "maryland", "massachusetts", "michigan",
		"minnesota", "mississippi", "missouri", "montana", "nebraska", "nevada",
		"new hampshire", "new jersey", "new mexico", "new york", "north carolina",
		"north dakota", "ohio", "oklahoma", "oregon", "pennsylvania", "rhode island",
		"south carolina", "south dakota", "tennessee", "texas", "utah", "vermont", "virginia",
		"washington", "west virginia", "wisconsin", "wyoming",
		"atlanta", "austin", "baltimore", "boston", "charlotte", "chicago", "cleveland",
		"columbus", "dallas", "denver", "detroit", "el paso", "fort worth", "houston",
		"indianapolis", "jacksonville", "kansas city", "las vegas", "los angeles", "miami",
		"milwaukee", "minneapolis", "nashville", "new orleans", "oklahoma city", "orlando",
		"philadelphia", "phoenix", "pittsburgh", "portland", "raleigh", "sacramento",
		"salt lake city", "san antonio", "san diego", "san francisco", "san jose", "seattle",
		"st. louis", "tampa", "tucson",
	}
}
