package plex

// mediaContainer is the root element of every Plex XML response
type mediaContainer struct {
	Size        int         `xml:"size,attr"`
	Directories []directory `xml:"Directory"`
	Videos      []video     `xml:"Video"`
	Tracks      []track     `xml:"Track"`
}

// directory represents libraries, shows, seasons, artists and albums
type directory struct {
	Key         string `xml:"key,attr"`
	RatingKey   string `xml:"ratingKey,attr"`
	Title       string `xml:"title,attr"`
	Type        string `xml:"type,attr"`
	ParentKey   string `xml:"parentRatingKey,attr"`
	ParentTitle string `xml:"parentTitle,attr"`
	Thumb       string `xml:"thumb,attr"`
	Art         string `xml:"art,attr"`
}

// video represents movies and episodes
type video struct {
	RatingKey string  `xml:"ratingKey,attr"`
	Title     string  `xml:"title,attr"`
	Type      string  `xml:"type,attr"`
	ParentKey string  `xml:"parentRatingKey,attr"`
	Thumb     string  `xml:"thumb,attr"`
	Art       string  `xml:"art,attr"`
	Media     []media `xml:"Media"`
}

// track represents a music track inside an album
type track struct {
	RatingKey string  `xml:"ratingKey,attr"`
	Title     string  `xml:"title,attr"`
	Media     []media `xml:"Media"`
}

type media struct {
	Parts []part `xml:"Part"`
}

type part struct {
	File string `xml:"file,attr"`
}

// file returns the first media file path of a video, or ""
func (v video) file() string {
	for _, m := range v.Media {
		for _, p := range m.Parts {
			if p.File != "" {
				return p.File
			}
		}
	}
	return ""
}

// file returns the first media file path of a track, or ""
func (t track) file() string {
	for _, m := range t.Media {
		for _, p := range m.Parts {
			if p.File != "" {
				return p.File
			}
		}
	}
	return ""
}
