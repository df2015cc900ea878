package offline

const (
	imageRenewable = "https://images.unsplash.com/photo-1466611653911-95081537e5b7?w=800&h=600&fit=crop"
	imageEnergy    = "https://images.unsplash.com/photo-1497435334941-8c899ee9e8e9?w=800&h=600&fit=crop"
	imageAfrica    = "https://images.unsplash.com/photo-1516026672322-bc52d61a55d5?w=800&h=600&fit=crop"
	imageHydro     = "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=800&h=600&fit=crop"
	imageDefault   = "https://images.unsplash.com/photo-1586339949916-3e9457bef6d3?w=800&h=600&fit=crop"

	videoEnergy  = "https://www.youtube.com/watch?v=U3AZQJz--mg"
	videoDefault = "https://www.youtube.com/watch?v=U3AZQJz--mg"
)

type keywordURL struct {
	keywords []string
	url      string
}

var imageTable = []keywordURL{
	{keywords: []string{"renewable", "solar", "wind"}, url: imageRenewable},
	{keywords: []string{"energy", "power"}, url: imageEnergy},
	{keywords: []string{"africa"}, url: imageAfrica},
	{keywords: []string{"hydro"}, url: imageHydro},
}

var videoTable = []keywordURL{
	{keywords: []string{"renewable", "solar", "wind", "energy", "power"}, url: videoEnergy},
	{keywords: []string{"africa"}, url: videoEnergy},
}

// Image picks a stock image for the title and tags.
func Image(title string, tags []string) string {
	return lookupURL(imageTable, searchText(title, tags), imageDefault)
}

// Video picks a canned video for the title and tags.
func Video(title string, tags []string) string {
	return lookupURL(videoTable, searchText(title, tags), videoDefault)
}

func lookupURL(table []keywordURL, text, fallback string) string {
	for _, row := range table {
		if containsAny(text, row.keywords...) {
			return row.url
		}
	}
	return fallback
}
