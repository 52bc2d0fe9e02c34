package config

import "github.com/ibeckermayer/portfoliowatch/internal/types"

// DefaultPortfolio returns the built-in roster of portfolio companies
func DefaultPortfolio() []types.Company {
	return []types.Company{
		{Name: "Akido", Website: "https://www.akidolabs.com/", LinkedInURL: "https://www.linkedin.com/company/akido-labs/", SearchTerms: []string{"Akido Labs", "healthcare AI startup"}},
		{Name: "AllVoices", Website: "https://www.allvoices.co/", LinkedInURL: "https://www.linkedin.com/company/allvoices/", SearchTerms: []string{"AllVoices startup", "employee feedback platform"}},
		{Name: "Alyf", Website: "https://www.alyf.health/", LinkedInURL: "https://www.linkedin.com/company/alyf/", SearchTerms: []string{"Alyf startup", "cardiac monitoring technology"}},
		{Name: "Arc", Website: "https://arcboats.com/", LinkedInURL: "https://www.linkedin.com/company/arc-boats/", SearchTerms: []string{"Arc electric boats", "marine startup"}},
		{Name: "Brellium", Website: "https://brellium.com/", LinkedInURL: "https://www.linkedin.com/company/brelium/", SearchTerms: []string{"Brellium startup", "AI compliance platform"}},
		{Name: "Career Karma", Website: "https://careerkarma.com/", LinkedInURL: "https://www.linkedin.com/company/careerkarma/", SearchTerms: []string{"Career Karma startup", "tech education platform"}},
		{Name: "Copper", Website: "https://copperhome.com/", LinkedInURL: "https://www.linkedin.com/company/copper-electric/", SearchTerms: []string{"Copper startup appliances", "smart kitchen technology"}},
		{Name: "EnsoData", Website: "https://www.ensodata.com/", LinkedInURL: "https://www.linkedin.com/company/ensodata/", SearchTerms: []string{"EnsoData startup", "sleep analysis AI"}},
		{Name: "EveryCare", Website: "https://myeverycare.com/", LinkedInURL: "https://www.linkedin.com/company/everycare/", SearchTerms: []string{"EveryCare startup", "senior care platform"}},
		{Name: "Farmers Business Network", Website: "https://www.fbn.com/", LinkedInURL: "https://www.linkedin.com/company/farmers-business-network/", SearchTerms: []string{"FBN startup", "agricultural technology platform"}},
		{Name: "Forage", Website: "https://www.joinforage.com/", LinkedInURL: "https://www.linkedin.com/company/forage-payments/", SearchTerms: []string{"Forage startup payments", "SNAP EBT technology"}},
		{Name: "Infinite Machine", Website: "https://www.infinitemachine.com/", LinkedInURL: "https://www.linkedin.com/company/infinite-machine/", SearchTerms: []string{"Infinite Machine startup", "electric vehicle company"}},
		{Name: "Insightful Instruments", Website: "https://insightfulinstruments.com/", LinkedInURL: "https://www.linkedin.com/company/insightful-instruments/", SearchTerms: []string{"Insightful Instruments startup", "surgical technology"}},
		{Name: "Kurios", Website: "https://kurios.la/", LinkedInURL: "https://www.linkedin.com/company/kurios/", SearchTerms: []string{"Kurios startup", "talent platform"}},
		{Name: "Magrathea", Website: "https://magratheametals.com/", LinkedInURL: "https://www.linkedin.com/company/magrathea-metals/", SearchTerms: []string{"Magrathea startup", "sustainable metals company"}},
		{Name: "MedTruly", Website: "https://www.medtruly.org/", LinkedInURL: "https://www.linkedin.com/company/medtruly/", SearchTerms: []string{"MedTruly startup", "healthcare platform"}},
		{Name: "Mental", Website: "https://www.getmental.com/", LinkedInURL: "https://www.linkedin.com/company/mental/", SearchTerms: []string{"Mental startup app", "fitness training platform"}},
		{Name: "Modern Health", Website: "https://www.modernhealth.com/", LinkedInURL: "https://www.linkedin.com/company/modern-health/", SearchTerms: []string{"Modern Health startup", "workplace mental health"}},
		{Name: "Moov", Website: "https://moov.co/", LinkedInURL: "https://www.linkedin.com/company/moov-semiconductor/", SearchTerms: []string{"Moov startup", "fintech payments platform"}},
		{Name: "Nevoya", Website: "https://www.nevoya.com/", LinkedInURL: "https://www.linkedin.com/company/nevoya/", SearchTerms: []string{"Nevoya startup", "electric freight company"}},
		{Name: "Nomba", Website: "https://nomba.com/", LinkedInURL: "https://www.linkedin.com/company/nomba/", SearchTerms: []string{"Nomba startup", "African payments platform"}},
		{Name: "OneImaging", Website: "https://oneimaging.com/", LinkedInURL: "https://www.linkedin.com/company/oneimaging/", SearchTerms: []string{"OneImaging startup", "medical imaging platform"}},
		{Name: "Perceptive", Website: "https://www.perceptive.io/", LinkedInURL: "https://www.linkedin.com/company/perceptive-dentistry/", SearchTerms: []string{"Perceptive startup", "dental robotics company"}},
		{Name: "Plural Energy", Website: "https://www.pluralfinance.com/", LinkedInURL: "https://www.linkedin.com/company/plural-energy/", SearchTerms: []string{"Plural Energy startup", "renewable energy finance"}},
		{Name: "ReadoutAI", Website: "https://readout.ai/", LinkedInURL: "https://www.linkedin.com/company/readout-ai/", SearchTerms: []string{"ReadoutAI startup", "clinical trial technology"}},
		{Name: "Recursion", Website: "https://www.recursion.com/", LinkedInURL: "https://www.linkedin.com/company/recursion-pharmaceuticals/", SearchTerms: []string{"Recursion Pharmaceuticals", "AI drug discovery company"}},
		{Name: "Relief", Website: "https://www.relief.app/", LinkedInURL: "https://www.linkedin.com/company/relief-financial/", SearchTerms: []string{"Relief startup app", "debt management platform"}},
		{Name: "Rubi", Website: "https://www.rubi.earth/", SearchTerms: []string{"Rubi startup", "sustainable fashion technology"}},
		{Name: "Taro", Website: "https://www.tarohealth.com/", LinkedInURL: "https://www.linkedin.com/company/taro-health/", SearchTerms: []string{"Taro Health startup", "health insurance platform"}},
		{Name: "Terra Energy", Website: "https://www.terraenergy.io/", LinkedInURL: "https://www.linkedin.com/company/terra-energy/", SearchTerms: []string{"Terra Energy startup", "clean energy company"}},
		{Name: "Unlearn", Website: "https://www.unlearn.ai/", LinkedInURL: "https://www.linkedin.com/company/unlearn-ai/", SearchTerms: []string{"Unlearn startup", "AI clinical trials"}},
		{Name: "Vicarious Surgical", Website: "https://www.vicarioussurgical.com/", LinkedInURL: "https://www.linkedin.com/company/vicarious-surgical/", SearchTerms: []string{"Vicarious Surgical startup", "robotic surgery platform"}},
		{Name: "Wayve", Website: "https://wayve.ai/", LinkedInURL: "https://www.linkedin.com/company/wayve/", SearchTerms: []string{"Wayve startup", "autonomous vehicle AI"}},
		{Name: "Zocalo Health", Website: "https://www.zocalo.health/", LinkedInURL: "https://www.linkedin.com/company/zocalo-health/", SearchTerms: []string{"Zocalo Health startup", "Latino healthcare platform"}},
	}
}
