package catalog

// Default returns the built-in catalog: Irish counties and larger towns, the
// property-type buckets used by the listing sites, and common amenities.
//
// "house" deliberately shares synonyms with the narrower buckets, so a clause
// like "terraced" yields both the house condition and the terraced one.
func Default() *Catalog {
	return defaultCatalog
}

var defaultCatalog = MustNew(File{
	Locations: []string{
		// counties
		"dublin", "cork", "galway", "sligo", "kildare", "donegal", "mayo",
		"limerick", "waterford", "meath", "wicklow", "kilkenny", "carlow",
		"cavan", "clare", "kerry", "laois", "leitrim", "longford", "louth",
		"monaghan", "offaly", "roscommon", "tipperary", "westmeath", "wexford",
		// towns
		"drogheda", "dundalk", "swords", "bray", "navan", "naas", "ennis",
		"tralee", "athlone", "letterkenny", "killarney", "maynooth", "celbridge",
		"malahide", "howth", "dun laoghaire", "blackrock", "rathmines",
		"ranelagh", "clontarf", "salthill", "kinsale", "cobh", "mullingar",
		"portlaoise", "tullamore", "castlebar", "westport",
	},
	PropertyTypes: []PropertyType{
		{Name: "house", Synonyms: []string{"house", "detached", "semi-detached", "terraced", "townhouse", "bungalow"}},
		{Name: "apartment", Synonyms: []string{"apartment", "flat", "penthouse", "studio"}},
		{Name: "detached", Synonyms: []string{"detached"}},
		{Name: "semi-detached", Synonyms: []string{"semi-detached"}},
		{Name: "terraced", Synonyms: []string{"terraced", "end of terrace"}},
		{Name: "townhouse", Synonyms: []string{"townhouse"}},
		{Name: "bungalow", Synonyms: []string{"bungalow"}},
		{Name: "duplex", Synonyms: []string{"duplex"}},
	},
	Features: []string{"garden", "parking", "balcony", "view", "garage", "pool"},
})
