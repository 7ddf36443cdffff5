package words

import (
	"math/rand"
	"time"

	"github.com/swemmanuelgz/impostor-backend/internal/model"
)

// Supplier hands out categorized secret words for rounds started without an
// explicit word.
type Supplier struct {
	rng        *rand.Rand
	categories []string
	byCategory map[string][]string
}

func New() *Supplier {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

func NewWithSource(src rand.Source) *Supplier {
	categories := make([]string, 0, len(wordsByCategory))
	for category := range wordsByCategory {
		categories = append(categories, category)
	}
	return &Supplier{
		rng:        rand.New(src),
		categories: categories,
		byCategory: wordsByCategory,
	}
}

func (s *Supplier) Categories() []string {
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *Supplier) RandomCategory() string {
	return s.categories[s.rng.Intn(len(s.categories))]
}

// RandomWordFromCategory falls back to any category when the requested one
// is unknown.
func (s *Supplier) RandomWordFromCategory(category string) string {
	pool, ok := s.byCategory[category]
	if !ok {
		pool = s.byCategory[s.RandomCategory()]
	}
	return pool[s.rng.Intn(len(pool))]
}

func (s *Supplier) RandomWordWithCategory() model.WordWithCategory {
	category := s.RandomCategory()
	return model.WordWithCategory{
		Word:     s.RandomWordFromCategory(category),
		Category: category,
	}
}

var wordsByCategory = map[string][]string{
	"Animals": {
		"DOG", "CAT", "ELEPHANT", "LION", "TIGER", "GIRAFFE", "ZEBRA",
		"HORSE", "COW", "SHEEP", "PIG", "CHICKEN", "DUCK", "EAGLE",
		"DOLPHIN", "SHARK", "WHALE", "PENGUIN", "BEAR", "WOLF",
		"FOX", "RABBIT", "SQUIRREL", "MOUSE", "SNAKE", "CROCODILE",
		"TURTLE", "FROG", "BUTTERFLY", "BEE", "ANT", "SPIDER",
		"GORILLA", "MONKEY", "CAMEL", "KANGAROO", "KOALA", "PANDA",
	},
	"Food": {
		"PIZZA", "BURGER", "PASTA", "RICE", "SUSHI", "TACOS",
		"ICE CREAM", "CHOCOLATE", "BREAD", "CHEESE", "HAM", "CHICKEN",
		"FISH", "SALAD", "SOUP", "OMELETTE", "PAELLA", "CROQUETTES",
		"FRIES", "EGGS", "BACON", "SAUSAGE", "DUMPLING", "CHURROS",
		"COOKIES", "CAKE", "PIE", "FLAN", "CUSTARD", "APPLE",
		"ORANGE", "BANANA", "STRAWBERRY", "WATERMELON", "MELON", "GRAPE",
	},
	"Objects": {
		"TABLE", "CHAIR", "SOFA", "BED", "LAMP", "MIRROR", "CLOCK",
		"TELEVISION", "COMPUTER", "PHONE", "BOOK", "PEN",
		"NOTEBOOK", "BACKPACK", "GLASSES", "UMBRELLA", "SUITCASE", "KEY",
		"WALLET", "SCISSORS", "HAMMER", "SCREWDRIVER", "KNIFE",
		"FORK", "SPOON", "PLATE", "GLASS", "CUP", "BOTTLE",
		"FRIDGE", "MICROWAVE", "WASHING MACHINE", "IRON", "VACUUM",
	},
	"Places": {
		"BEACH", "MOUNTAIN", "FOREST", "DESERT", "CITY", "VILLAGE",
		"PARK", "GARDEN", "MUSEUM", "LIBRARY", "CINEMA", "THEATRE",
		"HOSPITAL", "SCHOOL", "UNIVERSITY", "OFFICE", "BANK",
		"SUPERMARKET", "RESTAURANT", "CAFE", "HOTEL", "AIRPORT",
		"STATION", "GYM", "POOL", "STADIUM", "CHURCH",
		"SQUARE", "MARKET", "PHARMACY", "BARBERSHOP", "GAS STATION",
	},
	"Sports": {
		"FOOTBALL", "BASKETBALL", "TENNIS", "SWIMMING", "CYCLING",
		"ATHLETICS", "BOXING", "KARATE", "JUDO", "GOLF", "BASEBALL",
		"VOLLEYBALL", "HANDBALL", "HOCKEY", "RUGBY", "SURFING", "SKIING",
		"SNOWBOARDING", "SKATING", "SKATEBOARDING", "CLIMBING", "HIKING",
		"FISHING", "ARCHERY", "HORSE RIDING", "GYMNASTICS", "YOGA", "PILATES",
	},
	"Professions": {
		"DOCTOR", "NURSE", "LAWYER", "ENGINEER", "ARCHITECT",
		"TEACHER", "CHEF", "WAITER", "POLICE OFFICER", "FIREFIGHTER",
		"PILOT", "DRIVER", "MECHANIC", "ELECTRICIAN", "PLUMBER",
		"CARPENTER", "PAINTER", "BRICKLAYER", "GARDENER", "HAIRDRESSER",
		"DENTIST", "VETERINARIAN", "PHARMACIST", "JOURNALIST",
		"PHOTOGRAPHER", "ACTOR", "MUSICIAN", "SINGER", "DANCER",
	},
	"Technology": {
		"COMPUTER", "PHONE", "TABLET", "TELEVISION", "ROUTER",
		"PRINTER", "KEYBOARD", "MOUSE", "MONITOR", "HEADPHONES",
		"SPEAKER", "CAMERA", "MICROPHONE", "HARD DRIVE", "USB", "CABLE",
		"BATTERY", "CHARGER", "ANTENNA", "SATELLITE", "ROBOT", "DRONE",
		"CONSOLE", "VIDEO GAME", "INTERNET", "WIFI", "BLUETOOTH",
		"APP", "PROGRAM", "SYSTEM", "DATABASE",
	},
	"Nature": {
		"TREE", "FLOWER", "PLANT", "LEAF", "BRANCH", "ROOT", "SEED",
		"FOREST", "JUNGLE", "MEADOW", "FIELD", "RIVER", "LAKE", "SEA",
		"OCEAN", "WATERFALL", "VOLCANO", "MOUNTAIN", "HILL", "VALLEY",
		"CAVE", "ISLAND", "PENINSULA", "CLOUD", "RAIN", "SNOW",
		"THUNDER", "LIGHTNING", "RAINBOW", "SUN", "MOON", "STAR",
	},
	"Vehicles": {
		"CAR", "MOTORBIKE", "BICYCLE", "BUS", "TRUCK", "VAN",
		"TAXI", "AMBULANCE", "FIRE TRUCK", "POLICE CAR", "TRAIN", "SUBWAY",
		"TRAM", "PLANE", "HELICOPTER", "SHIP", "YACHT", "BOAT",
		"SUBMARINE", "ROCKET", "SCOOTER", "SKATEBOARD", "ROLLER SKATES",
		"TRACTOR", "EXCAVATOR", "CRANE", "PICKUP", "LIMOUSINE",
	},
	"Instruments": {
		"GUITAR", "PIANO", "VIOLIN", "DRUMS", "FLUTE", "SAXOPHONE",
		"TRUMPET", "CLARINET", "ACCORDION", "HARP", "BASS", "UKULELE",
		"BANJO", "MANDOLIN", "ORGAN", "XYLOPHONE", "TRIANGLE",
		"MARACAS", "CASTANETS", "TAMBOURINE", "DRUM", "BONGOS",
		"HARMONICA", "BAGPIPES", "CELLO", "DOUBLE BASS", "TUBA", "TROMBONE",
	},
}
