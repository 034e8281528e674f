package quotes

import (
	"encoding/json"
	"fmt"

	"cattleprices/internal/scrapers/scot"
)

// CattleType is the animal category of a CattleMarketData record.
type CattleType int

const (
	CATTLE_FAT_OX CattleType = iota
	CATTLE_FAT_COW
	CATTLE_FAT_HEIFER
)

var cattleTypeNames = map[CattleType]string{
	CATTLE_FAT_OX:     "Boi Gordo",
	CATTLE_FAT_COW:    "Vaca Gorda",
	CATTLE_FAT_HEIFER: "Novilha Gorda",
}

var cattleTypeTables = map[CattleType]scot.TableType{
	CATTLE_FAT_OX:     scot.TABLE_FAT_OX_PRICES,
	CATTLE_FAT_COW:    scot.TABLE_FAT_COW_PRICES,
	CATTLE_FAT_HEIFER: scot.TABLE_FAT_HEIFER_PRICES,
}

// CattleTypeOf returns the animal category of a market data table, it panics
// for the export and cattle price tables.
func CattleTypeOf(table scot.TableType) CattleType {
	for cattleType, t := range cattleTypeTables {
		if t == table {
			return cattleType
		}
	}
	panic(fmt.Sprintf("table %s does not hold cattle market data", table))
}

func (c CattleType) Table() scot.TableType {
	return cattleTypeTables[c]
}

func (c CattleType) String() string {
	name, ok := cattleTypeNames[c]
	if !ok {
		return fmt.Sprintf("CattleType(%d)", int(c))
	}
	return name
}

func (c CattleType) MarshalJSON() ([]byte, error) {
	name, ok := cattleTypeNames[c]
	if !ok {
		return nil, fmt.Errorf("unknown cattle type %d", int(c))
	}
	return json.Marshal(name)
}

func (c *CattleType) UnmarshalJSON(data []byte) error {
	var name string
	err := json.Unmarshal(data, &name)
	if err != nil {
		return err
	}
	for cattleType, candidate := range cattleTypeNames {
		if candidate == name {
			*c = cattleType
			return nil
		}
	}
	return fmt.Errorf("unknown cattle type %q", name)
}
