package domain

// Category is a topic from the static catalog with its sub-topics.
type Category struct {
	Name       string   `json:"name"`
	SubDomains []string `json:"subDomains"`
}

var catalog = []Category{
	{Name: "politics", SubDomains: []string{"National", "North Indian", "South Indian"}},
	{Name: "geography", SubDomains: []string{"States and Capitals", "Rivers and Mountains", "National Parks", "Libraries and Statues"}},
	{Name: "history", SubDomains: []string{"Ancient India", "Medieval India", "Modern India", "Freedom Movement"}},
	{Name: "mythology", SubDomains: []string{"Hindu", "Other Mythologies"}},
	{Name: "generalKnowledge", SubDomains: []string{"Economy", "Festivals", "Literature", "Indian Literature", "Science and Technology in India"}},
	{Name: "entertainment", SubDomains: []string{"Bollywood Movies", "Bollywood Actors", "Bollywood Songs", "Indian TV Shows"}},
	{Name: "sports", SubDomains: []string{"Cricket"}},
	{Name: "current affairs", SubDomains: []string{"Economic Affairs", "Infrastructure", "International Relations", "Health and Environment"}},
}

// Catalog returns a copy of the built-in categories in display order.
func Catalog() []Category {
	out := make([]Category, len(catalog))
	for i, c := range catalog {
		out[i] = c.clone()
	}
	return out
}

func (c Category) clone() Category {
	return Category{Name: c.Name, SubDomains: append([]string(nil), c.SubDomains...)}
}

// LookupCategory finds a catalog category and reports whether subDomain
// belongs to it. An empty subDomain only checks the category.
func LookupCategory(name, subDomain string) (Category, bool) {
	for _, c := range catalog {
		if c.Name != name {
			continue
		}
		if subDomain == "" {
			return c.clone(), true
		}
		for _, s := range c.SubDomains {
			if s == subDomain {
				return c.clone(), true
			}
		}
		return c.clone(), false
	}
	return Category{}, false
}
