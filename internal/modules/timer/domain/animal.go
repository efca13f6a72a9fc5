package domain

import "time"

type Family string

const (
	FamilyChicken Family = "chicken"
	FamilyCat     Family = "cat"
	FamilyDog     Family = "dog"
)

type AnimalType string

const (
	AnimalChicken      AnimalType = "chicken"
	AnimalChickenRed   AnimalType = "chicken_red"
	AnimalChickenFancy AnimalType = "chicken_fancy"
	AnimalCat          AnimalType = "cat"
	AnimalCatTabby     AnimalType = "cat_tabby"
	AnimalCatFat       AnimalType = "cat_fat"
	AnimalDog          AnimalType = "dog"
	AnimalDogBlack     AnimalType = "dog_black"
	AnimalDogHusky     AnimalType = "dog_husky"
)

var animalFamilies = map[AnimalType]Family{
	AnimalChicken:      FamilyChicken,
	AnimalChickenRed:   FamilyChicken,
	AnimalChickenFancy: FamilyChicken,
	AnimalCat:          FamilyCat,
	AnimalCatTabby:     FamilyCat,
	AnimalCatFat:       FamilyCat,
	AnimalDog:          FamilyDog,
	AnimalDogBlack:     FamilyDog,
	AnimalDogHusky:     FamilyDog,
}

// Family returns the reward family, or "" for an unknown type.
func (a AnimalType) Family() Family {
	return animalFamilies[a]
}

const AnimalStateActive = "active"

type Animal struct {
	ID        string
	Type      AnimalType
	State     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AwardedAnimals expands counts into base-type animals, dogs first.
func AwardedAnimals(c Counts, now time.Time, newID func() string) []Animal {
	out := make([]Animal, 0, c.Total())
	add := func(t AnimalType, n int) {
		for i := 0; i < n; i++ {
			out = append(out, Animal{ID: newID(), Type: t, State: AnimalStateActive, CreatedAt: now, UpdatedAt: now})
		}
	}
	add(AnimalDog, c.Dogs)
	add(AnimalCat, c.Cats)
	add(AnimalChicken, c.Chickens)
	return out
}
