// Package augment enriches assembled document context with either a
// static topical knowledge base or live web search.
package augment

import (
	"context"
	"strings"
)

type topic struct {
	terms   []string
	snippet string
}

// Ordered: the first topic whose term matches the query wins.
var topics = []topic{
	{
		terms: []string{"machine learning", "artificial intelligence", " ai", "neural network", "deep learning", "algorithm"},
		snippet: `**Machine Learning & AI**

Machine learning automates analytical model building: systems learn from data, identify patterns, and make decisions with minimal human intervention.

**Core Concepts:**
- Supervised learning: training on labeled data (classification, regression)
- Unsupervised learning: finding hidden patterns in unlabeled data
- Reinforcement learning: learning through rewards and penalties
- Deep learning: multi-layer neural networks for complex pattern recognition

**Applications:** medical diagnosis, fraud detection, autonomous vehicles, search engines, recommendation systems, demand forecasting.`,
	},
	{
		terms: []string{"renewable energy", "solar", "wind", "clean energy", "sustainability"},
		snippet: `**Renewable Energy & Sustainability**

Renewable energy comes from natural sources replenished faster than they are consumed.

**Solar:** photovoltaic panels convert sunlight directly into electricity; modern panels reach 20-22% efficiency with costs down 90% since 2010.
**Wind:** onshore turbines are cost-competitive with fossil fuels; offshore wind is the fastest growing segment.
**Other sources:** hydroelectric (16% of global electricity), geothermal baseload power, biomass.
**Storage:** lithium-ion batteries, pumped hydro, green hydrogen.`,
	},
	{
		terms: []string{"climate change", "global warming", "carbon"},
		snippet: `**Climate Change & Environmental Science**

Climate change is the long-term shift in global climate patterns, driven primarily by greenhouse gases from human activity.

**Causes:** CO2 from fossil fuel combustion (75% of emissions), methane from agriculture, nitrous oxide, fluorinated gases.
**Impacts:** 1.1C warming above pre-industrial levels, accelerating sea level rise, ice sheet melting, ocean acidification, extreme weather.
**Mitigation:** renewable energy transition, energy efficiency, carbon pricing, reforestation, electric transport.`,
	},
	{
		terms: []string{"programming", "coding", "software", "development", "python", "javascript"},
		snippet: `**Software Development**

Software development is the process of designing, building, deploying, and maintaining applications.

**Languages:** Python for data science and automation, JavaScript for the web, Java for enterprise systems, Go for cloud infrastructure, Rust for systems programming.
**Methodologies:** agile iteration, DevOps, test-driven development, microservices.
**Practices:** version control, continuous integration, code review, design patterns.`,
	},
	{
		terms: []string{"data science", "analytics", "statistics", "data analysis", "big data"},
		snippet: `**Data Science & Analytics**

Data science extracts knowledge from structured and unstructured data with scientific methods and algorithms.

**Process:** collection, cleaning (often 70-80% of the work), exploratory analysis, feature engineering, modeling, validation, deployment, monitoring.
**Tools:** Python (pandas, scikit-learn), R, SQL, Spark, cloud platforms.
**Statistics:** descriptive measures, hypothesis testing, regression, time series forecasting, A/B testing.`,
	},
	{
		terms: []string{"business", "marketing", "finance", "economics", "management"},
		snippet: `**Business & Economics**

Business creates and exchanges value through goods and services.

**Functions:** strategy, marketing, operations, finance, human resources.
**Economics:** supply and demand, market structures, macroeconomic indicators such as GDP and inflation.
**Trends:** digital transformation, ESG practices, remote work, data-driven decision making.`,
	},
	{
		terms: []string{"health", "medicine", "biology", "healthcare", "medical"},
		snippet: `**Health & Medical Sciences**

Healthcare covers the prevention, diagnosis, treatment, and management of illness.

**Specialties:** primary care, cardiology, neurology, oncology, radiology, mental health.
**Public health:** epidemiology, preventive medicine, vaccination, health policy.
**Technology:** telemedicine, medical imaging, electronic health records, precision medicine.`,
	},
	{
		terms: []string{"education", "learning", "teaching", "school", "university"},
		snippet: `**Education & Learning Sciences**

Education facilitates learning and skill development through instruction and experience.

**Approaches:** traditional classroom instruction, project-based learning, Montessori, online platforms.
**Theories:** constructivism, behaviorism, cognitivism, social learning.
**Technology:** learning management systems, gamification, adaptive learning.`,
	},
}

const fallbackAnswer = `**Answer:**

I can help explain this topic using my knowledge base which covers:

- **Science & Technology** - AI, programming, data science, engineering
- **Environment & Energy** - climate change, renewable energy, sustainability
- **Business & Economics** - management, finance, marketing, strategy
- **Health & Medicine** - healthcare systems, medical research, public health
- **Education & Learning** - teaching methods, educational technology

Please ask about a specific topic for a detailed explanation with examples.`

// docContextBudget caps how much document text is carried into a
// knowledge-led answer so the snippet stays the focus.
const docContextBudget = 400

// Knowledge is the offline augmentation provider. Enhance never
// returns an error; there is nothing external to fail.
type Knowledge struct{}

func NewKnowledge() *Knowledge {
	return &Knowledge{}
}

func (k *Knowledge) Enhance(ctx context.Context, query, body string) (string, []string, error) {
	snippet := lookup(query)
	hasDocs := strings.Contains(body, "From ")

	var enhanced string
	switch {
	case snippet != "" && hasDocs:
		docs := body
		if len(docs) > docContextBudget {
			docs = docs[:docContextBudget]
		}
		enhanced = snippet + "\n\n**From Your Documents:**\n" + docs
	case snippet != "":
		enhanced = snippet
	case strings.TrimSpace(body) != "":
		enhanced = "**Answer Based on Your Documents:**\n\n" + body
	default:
		enhanced = fallbackAnswer
	}

	labels := []string{"Internal Knowledge Base"}
	if strings.TrimSpace(body) != "" {
		labels = append([]string{"User Documents"}, labels...)
	}
	return enhanced, labels, nil
}

func lookup(query string) string {
	// Padded so the " ai" term cannot match inside other words.
	q := " " + strings.ToLower(query) + " "
	for _, t := range topics {
		for _, term := range t.terms {
			if strings.Contains(q, term) {
				return t.snippet
			}
		}
	}
	return ""
}
