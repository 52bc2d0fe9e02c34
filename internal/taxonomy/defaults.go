package taxonomy

// DefaultCategories are the venture-relevant keyword categories
var DefaultCategories = []Category{
	{Name: "revenue", Keywords: []string{"revenue", "sales", "income", "earnings", "profit", "growth", "ARR", "MRR", "customers", "subscription"}},
	{Name: "funding", Keywords: []string{"funding", "investment", "round", "raised", "capital", "investor", "valuation", "IPO", "acquisition", "merger"}},
	{Name: "product", Keywords: []string{"product", "launch", "feature", "update", "release", "beta", "platform", "technology", "innovation"}},
	{Name: "partnership", Keywords: []string{"partnership", "collaboration", "alliance", "deal", "contract", "agreement", "integration"}},
	{Name: "hiring", Keywords: []string{"hiring", "recruiting", "team", "joined", "executive", "CEO", "CTO", "CFO", "VP", "director"}},
	{Name: "market", Keywords: []string{"market", "industry", "competition", "sector", "expansion", "international", "global"}},
	{Name: "awards", Keywords: []string{"award", "recognition", "winner", "best", "top", "leading", "excellence", "achievement"}},
	{Name: CategoryNegative, Keywords: []string{"lawsuit", "investigation", "scandal", "controversy", "layoffs", "closure", "bankruptcy", "fraud"}},
}

// DefaultHighValueAccounts are media and investor handles whose posts carry extra weight
var DefaultHighValueAccounts = []string{
	"techcrunch", "venturebeat", "theinformation", "axios", "bloomberg", "reuters",
	"wsj", "nytimes", "ft", "forbes", "businessinsider", "cnbc",
	"a16z", "sequoia", "gv", "accel", "founderfund", "bessemervp",
}

// DefaultPositiveWords signal a favourable tone
var DefaultPositiveWords = []string{
	"great", "excellent", "amazing", "awesome", "success", "successful", "growth",
	"growing", "win", "breakthrough", "innovative", "exciting", "excited", "proud",
	"congrats", "congratulations", "milestone", "record", "strong", "love",
}

// DefaultNegativeWords signal an unfavourable tone
var DefaultNegativeWords = []string{
	"bad", "terrible", "awful", "fail", "failure", "failed", "decline", "loss",
	"lawsuit", "layoffs", "fraud", "scandal", "concern", "problem", "issue",
	"disappointing", "weak", "struggle", "struggling", "bankruptcy",
}

// Default returns the built-in taxonomy
func Default() *Taxonomy {
	return MustNew(DefaultCategories, DefaultHighValueAccounts, DefaultPositiveWords, DefaultNegativeWords)
}
