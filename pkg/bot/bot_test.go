package bot

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"taxifleet/pkg/models"
)

func TestFormatList(t *testing.T) {
	items := []fmt.Stringer{
		&models.Driver{Username: "new_driver", FirstName: "Name", LastName: "Surname"},
		&models.Driver{Username: "another_driver", FirstName: "A", LastName: "B"},
	}

	got := formatList("Drivers", "driver", items, 7)

	assert.Equal(t, "Drivers matching \"driver\"\n\n1. new_driver (Name Surname)\n2. another_driver (A B)\n\n…and 5 more", got)
}

func TestFormatListBlankQuery(t *testing.T) {
	items := []fmt.Stringer{&models.Manufacturer{Name: "BMW", Country: "Germany"}}

	assert.Equal(t, "Manufacturers\n\n1. BMW Germany\n", formatList("Manufacturers", "", items, 1))
}

func TestFormatListEmpty(t *testing.T) {
	assert.Equal(t, "📭 Nothing matches \"audi\".", formatList("Cars", "audi", nil, 0))
}

func TestCarLine(t *testing.T) {
	withMaker := carLine{model: "M5", manufacturer: &models.Manufacturer{Name: "BMW", Country: "Germany"}}
	assert.Equal(t, "M5 (BMW Germany)", withMaker.String())

	assert.Equal(t, "M5", carLine{model: "M5"}.String())
}
