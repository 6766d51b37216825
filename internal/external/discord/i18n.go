package discord

// Embed label translations. French is the default, matching the
// marketplace's primary audience.
var translations = map[string]map[string]string{
	"fr": {
		"new_item":        "Nouvel article trouvé !",
		"price":           "Prix",
		"brand":           "Marque",
		"size":            "Taille",
		"condition":       "État",
		"view_on_vinted":  "Voir sur Vinted",
		"posted":          "Publié",
		"no_searches":     "Aucune recherche active",
		"your_searches":   "Vos recherches actives",
		"error":           "Erreur",
		"keyword":         "Mot-clé",
		"filters":         "Filtres",
		"notifications":   "Notifications",
		"dm":              "✉️ DM",
		"channel":         "📢 Salon",
		"and_more":        "... et %d recherches supplémentaires",
	},
	"en": {
		"new_item":        "New item found!",
		"price":           "Price",
		"brand":           "Brand",
		"size":            "Size",
		"condition":       "Condition",
		"view_on_vinted":  "View on Vinted",
		"posted":          "Posted",
		"no_searches":     "No active searches",
		"your_searches":   "Your active searches",
		"error":           "Error",
		"keyword":         "Keyword",
		"filters":         "Filters",
		"notifications":   "Notifications",
		"dm":              "✉️ DM",
		"channel":         "📢 Channel",
		"and_more":        "... and %d more searches",
	},
}

// getText returns the label for a key in the given language, falling back
// to French, then to the key itself.
func getText(key, lang string) string {
	if labels, ok := translations[lang]; ok {
		if text, ok := labels[key]; ok {
			return text
		}
	}
	if text, ok := translations["fr"][key]; ok {
		return text
	}
	return key
}
