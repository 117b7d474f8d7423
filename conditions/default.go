package conditions

import "sync"

var defaultRules = []Rule{
	{
		ID:          "diabetes",
		Name:        "Diabetes",
		Avoid:       []string{"sugar", "white bread", "white rice", "processed foods", "candy", "soda", "pastries"},
		Recommend:   []string{"whole grains", "leafy greens", "berries", "nuts", "lean protein", "quinoa"},
		Description: "Foods that help manage blood sugar levels",
	},
	{
		ID:          "high_blood_pressure",
		Name:        "High Blood Pressure",
		Avoid:       []string{"salt", "processed meats", "pickles", "canned soups", "fast food", "bacon"},
		Recommend:   []string{"bananas", "spinach", "avocados", "garlic", "berries", "oats"},
		Description: "Low-sodium foods that support heart health",
	},
	{
		ID:          "heart_disease",
		Name:        "Heart Disease",
		Avoid:       []string{"saturated fats", "trans fats", "processed meats", "fried foods", "butter"},
		Recommend:   []string{"fatty fish", "oats", "berries", "dark chocolate", "olive oil", "nuts"},
		Description: "Heart-healthy foods rich in omega-3s",
	},
	{
		ID:          "kidney_disease",
		Name:        "Kidney Disease",
		Avoid:       []string{"high-potassium foods", "processed meats", "dairy", "bananas", "oranges"},
		Recommend:   []string{"apples", "berries", "cauliflower", "olive oil", "white rice"},
		Description: "Low-potassium and low-phosphorus foods",
	},
	{
		ID:          "celiac_disease",
		Name:        "Celiac Disease",
		Avoid:       []string{"wheat", "barley", "rye", "most processed foods", "beer", "pasta"},
		Recommend:   []string{"quinoa", "rice", "gluten-free oats", "fruits", "vegetables"},
		Description: "Naturally gluten-free foods",
	},
	{
		ID:          "lactose_intolerance",
		Name:        "Lactose Intolerance",
		Avoid:       []string{"milk", "cheese", "yogurt", "butter", "ice cream", "cream"},
		Recommend:   []string{"almond milk", "lactose-free products", "leafy greens", "nuts"},
		Description: "Dairy-free alternatives and calcium-rich foods",
	},
	{
		ID:          "high_cholesterol",
		Name:        "High Cholesterol",
		Avoid:       []string{"fried foods", "processed meats", "full-fat dairy", "baked goods", "egg yolks"},
		Recommend:   []string{"oats", "nuts", "fatty fish", "olive oil", "beans", "apples"},
		Description: "Foods that help lower cholesterol",
	},
	{
		ID:          "gout",
		Name:        "Gout",
		Avoid:       []string{"red meat", "organ meats", "shellfish", "alcohol", "sugary drinks"},
		Recommend:   []string{"low-fat dairy", "vegetables", "cherries", "whole grains", "water"},
		Description: "Low-purine foods that reduce uric acid",
	},
	{
		ID:          "gerd",
		Name:        "GERD",
		Avoid:       []string{"spicy foods", "citrus", "tomatoes", "chocolate", "coffee", "alcohol"},
		Recommend:   []string{"oatmeal", "ginger", "lean meats", "vegetables", "melons"},
		Description: "Non-acidic foods that reduce reflux",
	},
	{
		ID:          "ibs",
		Name:        "IBS",
		Avoid:       []string{"high-fiber foods", "dairy", "artificial sweeteners", "beans", "cabbage"},
		Recommend:   []string{"rice", "bananas", "carrots", "lean proteins", "herbal teas"},
		Description: "Gentle foods that reduce digestive symptoms",
	},
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in ten-condition catalog. The same instance is returned on every call.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := NewCatalog(defaultRules)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}
