package generator

import (
	"time"

	"github.com/Dan9191/statement-analyzer/internal/models"
)

// amountRange is a magnitude range; min == max means a fixed amount
type amountRange struct {
	min, max float64
}

// event is a transaction template emitted on a schedule
type event struct {
	description string
	category    models.Category
	subcategory string
	amount      amountRange
	credit      bool
}

// pick is a weighted choice of category with its merchants and amount range
type pick struct {
	category    models.Category
	subcategory string
	weight      float64
	merchants   []string
	prefix      string
	amount      amountRange
	credit      bool
}

// burst draws a random number of weighted picks
type burst struct {
	weekday    [2]int // count range on Monday..Friday, inclusive
	weekend    [2]int // count range on Saturday and Sunday, inclusive
	onlyOn     *time.Weekday
	picks      []pick
	cumulative []float64
}

// periodic fires every `every` days counted from the first day of the horizon
type periodic struct {
	every, offset int
	events        []event
}

type profileTable struct {
	periodic []periodic
	monthly  map[int][]event // keyed by calendar day of month
	bursts   []*burst
}

func fixed(v float64) amountRange {
	return amountRange{min: v, max: v}
}

func around(v, pct float64) amountRange {
	return amountRange{min: v * (1 - pct), max: v * (1 + pct)}
}

func newBurst(weekday, weekend [2]int, onlyOn *time.Weekday, picks []pick) *burst {
	b := &burst{weekday: weekday, weekend: weekend, onlyOn: onlyOn, picks: picks}
	total := 0.0
	for _, p := range picks {
		total += p.weight
		b.cumulative = append(b.cumulative, total)
	}
	return b
}

var personalTable = profileTable{
	periodic: []periodic{
		{every: 30, offset: 15, events: []event{
			{description: "Salary Deposit - Direct Deposit", category: models.Income, amount: fixed(5500), credit: true},
		}},
	},
	monthly: map[int][]event{
		1: {
			{description: "Rent Payment - Landlord", category: models.Bills, amount: fixed(1800)},
		},
		5: {
			{description: "Netflix", category: models.Subscriptions, amount: fixed(15.99)},
			{description: "Spotify Premium", category: models.Subscriptions, amount: fixed(10.99)},
			{description: "Adobe Creative", category: models.Subscriptions, amount: fixed(52.99)},
		},
		10: {
			{description: "PG&E Electric", category: models.Utilities, amount: amountRange{80, 150}},
			{description: "Comcast Internet", category: models.Utilities, amount: amountRange{80, 150}},
		},
	},
	bursts: []*burst{
		newBurst([2]int{1, 4}, [2]int{2, 7}, nil, []pick{
			{category: models.Groceries, weight: 0.25, amount: amountRange{20, 150},
				merchants: []string{"Whole Foods", "Trader Joes", "Safeway", "Walmart", "Target"}},
			{category: models.Dining, weight: 0.20, amount: amountRange{10, 80},
				merchants: []string{"Chipotle", "Starbucks", "McDonalds", "Olive Garden", "Subway", "Pizza Hut"}},
			{category: models.Entertainment, weight: 0.10, amount: amountRange{15, 60},
				merchants: []string{"Netflix", "Spotify", "AMC Theaters", "Steam", "PlayStation"}},
			{category: models.Utilities, weight: 0.05, amount: amountRange{10, 100},
				merchants: []string{"PG&E Electric", "Comcast Internet", "AT&T Mobile", "Water Company"}},
			{category: models.Transport, weight: 0.10, amount: amountRange{10, 60},
				merchants: []string{"Uber", "Lyft", "Shell Gas", "Chevron", "BART Transit"}},
			{category: models.Shopping, weight: 0.15, amount: amountRange{30, 300},
				merchants: []string{"Amazon", "Macys", "Best Buy", "Nike", "Apple Store", "Zara"}},
			{category: models.Healthcare, weight: 0.05, amount: amountRange{20, 200},
				merchants: []string{"CVS Pharmacy", "Kaiser Permanente", "Walgreens", "Dentist"}},
			{category: models.Subscriptions, weight: 0.02, amount: amountRange{10, 100},
				merchants: []string{"Netflix", "Spotify Premium", "Adobe Creative", "NYT Digital", "Amazon Prime"}},
			{category: models.Fitness, weight: 0.03, amount: amountRange{15, 50},
				merchants: []string{"Planet Fitness", "ClassPass", "Yoga Studio", "Nike Running"}},
			{category: models.Bills, weight: 0.05, amount: amountRange{10, 100},
				merchants: []string{"Rent Payment", "Insurance Premium", "Credit Card Payment"}},
		}),
	},
}

var monday = time.Monday

var companyTable = profileTable{
	periodic: []periodic{
		{every: 14, offset: 13, events: []event{
			{description: "Payroll - Engineering", category: models.Payroll, subcategory: "Engineering", amount: around(42000, 0.02)},
			{description: "Payroll - Sales", category: models.Payroll, subcategory: "Sales", amount: around(16000, 0.02)},
			{description: "Payroll - Operations", category: models.Payroll, subcategory: "Operations", amount: around(9000, 0.02)},
		}},
	},
	monthly: map[int][]event{
		1: {
			{description: "Office Rent", category: models.OperatingExpenses, subcategory: "Rent", amount: fixed(12000)},
		},
		5: {
			{description: "AWS", category: models.OperatingExpenses, subcategory: "Cloud", amount: amountRange{3000, 6000}},
			{description: "Slack", category: models.OperatingExpenses, subcategory: "Software", amount: fixed(800)},
			{description: "GitHub", category: models.OperatingExpenses, subcategory: "Software", amount: fixed(400)},
		},
		10: {
			{description: "Electric & Internet", category: models.OperatingExpenses, subcategory: "Utilities", amount: amountRange{1500, 2500}},
		},
	},
	bursts: []*burst{
		newBurst([2]int{1, 3}, [2]int{1, 3}, &monday, []pick{
			{category: models.Revenue, subcategory: "Services", weight: 0.5, prefix: "Client Payment - ",
				amount: amountRange{12000, 32000}, credit: true,
				merchants: []string{"Acme Corp", "Globex", "Initech"}},
			{category: models.Revenue, subcategory: "Licensing", weight: 0.2, prefix: "Client Payment - ",
				amount: amountRange{12000, 32000}, credit: true,
				merchants: []string{"Umbrella Corp", "Stark Industries"}},
			{category: models.Revenue, subcategory: "Subscriptions", weight: 0.3, prefix: "Client Payment - ",
				amount: amountRange{12000, 32000}, credit: true,
				merchants: []string{"Wayne Enterprises", "Hooli", "Wonka Industries"}},
		}),
		newBurst([2]int{0, 3}, [2]int{0, 1}, nil, []pick{
			{category: models.OperatingExpenses, subcategory: "Travel", weight: 0.20, amount: amountRange{200, 1500},
				merchants: []string{"United Airlines", "Delta", "Marriott", "Hilton"}},
			{category: models.OperatingExpenses, subcategory: "Marketing", weight: 0.20, amount: amountRange{300, 2500},
				merchants: []string{"Google Ads", "LinkedIn Ads", "Meta Ads"}},
			{category: models.OperatingExpenses, subcategory: "Office Supplies", weight: 0.25, amount: amountRange{20, 400},
				merchants: []string{"Staples", "Amazon Business", "Office Depot"}},
			{category: models.OperatingExpenses, subcategory: "Contractors", weight: 0.15, amount: amountRange{500, 4000},
				merchants: []string{"Upwork", "Toptal", "Freelance Design Co"}},
			{category: models.OperatingExpenses, subcategory: "Meals", weight: 0.20, amount: amountRange{15, 250},
				merchants: []string{"DoorDash", "Sweetgreen", "Local Cafe"}},
		}),
	},
}

func tableFor(p models.Profile) *profileTable {
	if p == models.Company {
		return &companyTable
	}
	return &personalTable
}
