package media

// Kind identifies which variant a Record carries.
type Kind string

const (
	KindEpisode Kind = "episode"
	KindMovie   Kind = "movie"
)

// Media is the classified payload of a Record. It is implemented only by
// Episode and Movie.
type Media interface {
	Kind() Kind
	isMedia()
}

// Episode describes a single TV episode.
type Episode struct {
	Show   string
	Season int
	Number int
	Title  string // empty when the filename carried no episode title
}

// Movie describes a feature film. Year is 0 when unknown.
type Movie struct {
	Name string
	Year int
}

func (Episode) Kind() Kind { return KindEpisode }
func (Episode) isMedia()   {}

func (Movie) Kind() Kind { return KindMovie }
func (Movie) isMedia()   {}

// Record is the result of classifying one filename. Records are built fresh
// per input and never mutated afterwards.
type Record struct {
	OriginalFileName string
	Extension        string // includes the leading dot, empty if none
	Media            Media
}

// Kind reports the variant of the record. A zero Record reports KindMovie,
// matching the classifier's fallback.
func (r Record) Kind() Kind {
	if r.Media == nil {
		return KindMovie
	}
	return r.Media.Kind()
}

// Name returns the show name for episodes and the movie name for movies.
func (r Record) Name() string {
	switch m := r.Media.(type) {
	case Episode:
		return m.Show
	case Movie:
		return m.Name
	default:
		return ""
	}
}

// Episode returns the episode payload and whether the record is an episode.
func (r Record) Episode() (Episode, bool) {
	ep, ok := r.Media.(Episode)
	return ep, ok
}

// Movie returns the movie payload and whether the record is a movie.
func (r Record) Movie() (Movie, bool) {
	mv, ok := r.Media.(Movie)
	return mv, ok
}
