package gazetteer

import (
	"errors"
	"math"
	"testing"
	"time"

	. "gopkg.in/check.v1"
)

// Hook up gocheck into the "go test" runner.
func Test(t *testing.T) { TestingT(t) }

const sampleDataset = "testdata/RU_sample.txt"

// sampleOrder is the file order of the valid rows in sampleDataset.
var sampleOrder = []string{
	"524901", "498817", "1496747", "1486209", "525404", "2022890", "9000001",
	"463343", "481608", "1489209", "9000002", "9000003", "9000004", "554234",
}

// winter is a fixed instant with no DST in effect for any Russian zone.
var winter = time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

type GazetteerSuite struct {
	g *Gazetteer
}

var _ = Suite(&GazetteerSuite{})

func (s *GazetteerSuite) SetUpSuite(c *C) {
	var err error
	s.g, err = LoadFile(sampleDataset, WithClock(func() time.Time { return winter }))
	c.Assert(err, IsNil)
	c.Assert(s.g, NotNil)
}

func (s *GazetteerSuite) TestLoadKeepsFileOrder(c *C) {
	c.Assert(s.g.Len(), Equals, len(sampleOrder))
	all := s.g.All()
	for i, id := range sampleOrder {
		c.Assert(all[i].ID, Equals, id, Commentf("position %d", i))
	}
}

func (s *GazetteerSuite) TestByIDFindsEveryRecord(c *C) {
	for _, r := range s.g.All() {
		got, err := s.g.ByID(r.ID)
		c.Assert(err, IsNil)
		c.Assert(got, DeepEquals, r)
	}
}

func (s *GazetteerSuite) TestByIDForms(c *C) {
	r, err := s.g.ByIntID(524901)
	c.Assert(err, IsNil)
	c.Assert(r.Name, Equals, "Москва")

	r, err = s.g.ByID("524901")
	c.Assert(err, IsNil)
	c.Assert(r.Name, Equals, "Москва")
	c.Assert(r.AlternateNames, DeepEquals, []string{"Moscow", "Moskva", "Москва", "MOW"})
	c.Assert(r.Population, Equals, int64(10381222))
	c.Assert(r.Timezone, Equals, "Europe/Moscow")
}

func (s *GazetteerSuite) TestByIDMatchesExactly(c *C) {
	for _, id := range []string{" 524901", "524901 ", "0524901", ""} {
		_, err := s.g.ByID(id)
		c.Assert(errors.Is(err, ErrNotFound), Equals, true, Commentf("id %q", id))
	}
}

func (s *GazetteerSuite) TestByIDNotFound(c *C) {
	_, err := s.g.ByID("123")
	c.Assert(err, ErrorMatches, "City not found")
	c.Assert(errors.Is(err, ErrNotFound), Equals, true)
	c.Assert(KindOf(err), Equals, KindNotFound)
}

func (s *GazetteerSuite) TestListFirstPage(c *C) {
	p := s.g.List(1, 5)
	c.Assert(p.Page, Equals, 1)
	c.Assert(p.PerPage, Equals, 5)
	c.Assert(p.TotalCities, Equals, 14)
	c.Assert(p.TotalPages, Equals, 3)
	c.Assert(p.Data, HasLen, 5)
	for i, r := range p.Data {
		c.Assert(r.ID, Equals, sampleOrder[i])
	}
}

func (s *GazetteerSuite) TestListLastAndPastEnd(c *C) {
	p := s.g.List(3, 5)
	c.Assert(p.Data, HasLen, 4)
	c.Assert(p.Data[3].ID, Equals, "554234")

	p = s.g.List(4, 5)
	c.Assert(p.Data, NotNil)
	c.Assert(p.Data, HasLen, 0)
	c.Assert(p.TotalPages, Equals, 3)

	p = s.g.List(math.MaxInt, 100)
	c.Assert(p.Data, HasLen, 0)
}

func (s *GazetteerSuite) TestListNormalizesInput(c *C) {
	p := s.g.List(-3, 0)
	c.Assert(p.Page, Equals, 1)
	c.Assert(p.PerPage, Equals, 1)
	c.Assert(p.Data, HasLen, 1)
	c.Assert(p.TotalPages, Equals, 14)

	p = s.g.List(1, 1000)
	c.Assert(p.PerPage, Equals, 100)
	c.Assert(p.Data, HasLen, 14)
	c.Assert(p.TotalPages, Equals, 1)
}

func (s *GazetteerSuite) TestListPagesReconstructFileOrder(c *C) {
	for n := 1; n <= 100; n++ {
		var ids []string
		for page := 1; ; page++ {
			p := s.g.List(page, n)
			c.Assert(len(p.Data) <= n, Equals, true)
			if len(p.Data) == 0 {
				break
			}
			for _, r := range p.Data {
				ids = append(ids, r.ID)
			}
		}
		c.Assert(ids, DeepEquals, sampleOrder, Commentf("perPage=%d", n))
	}
}

func (s *GazetteerSuite) TestSearchCyrillicPrefix(c *C) {
	res, err := s.g.Search("мос")
	c.Assert(err, IsNil)
	c.Assert(res.Query, Equals, "мос")
	c.Assert(res.Found, Equals, 4)
	c.Assert(res.Results, DeepEquals, []SearchHit{
		{ID: "524901", Name: "Москва", Population: 10381222},
		{ID: "463343", Name: "Зеленоград", AltName: "Москва-Зеленоград", Population: 250000},
		{ID: "525404", Name: "Мосальск", Population: 4318},
		{ID: "9000001", Name: "Мостовской", Population: 0},
	})
}

func (s *GazetteerSuite) TestSearchIsCaseInsensitive(c *C) {
	lower, err := s.g.Search("мос")
	c.Assert(err, IsNil)
	upper, err := s.g.Search("  МОС ")
	c.Assert(err, IsNil)
	c.Assert(upper, DeepEquals, lower)
}

func (s *GazetteerSuite) TestSearchTooShort(c *C) {
	for _, q := range []string{"", " ", "м", "  м  "} {
		res, err := s.g.Search(q)
		c.Assert(err, ErrorMatches, "Query should be at least 2 characters long")
		c.Assert(errors.Is(err, ErrValidation), Equals, true)
		c.Assert(res.Results, HasLen, 0)
	}
}

func (s *GazetteerSuite) TestCompareSameCity(c *C) {
	cmp, err := s.g.Compare("Москва", "Москва")
	c.Assert(err, IsNil)
	c.Assert(cmp.Comparison.SameTimezone, Equals, true)
	c.Assert(cmp.Comparison.TimezoneDifferenceHours, Equals, 0.0)
	c.Assert(cmp.Comparison.LatitudeDifferenceKm, Equals, 0.0)
	c.Assert(cmp.Comparison.DistanceKm, Equals, 0.0)
	c.Assert(cmp.Comparison.NorthernCity, Equals, "Москва")
}

func (s *GazetteerSuite) TestCompareTwoHourZones(c *C) {
	cmp, err := s.g.Compare("Москва", "Екатеринбург")
	c.Assert(err, IsNil)
	c.Assert(cmp.City1.Name, Equals, "Москва")
	c.Assert(cmp.City2.Name, Equals, "Екатеринбург")
	c.Assert(cmp.City2.Population, Equals, int64(1495066))
	c.Assert(cmp.Comparison.NorthernCity, Equals, "Екатеринбург")
	c.Assert(cmp.Comparison.LatitudeDifferenceKm, Equals, 122.42)
	c.Assert(cmp.Comparison.SameTimezone, Equals, false)
	c.Assert(cmp.Comparison.TimezoneDifferenceHours, Equals, -2.0)

	rev, err := s.g.Compare("Екатеринбург", "Москва")
	c.Assert(err, IsNil)
	c.Assert(rev.Comparison.TimezoneDifferenceHours, Equals, 2.0)
	c.Assert(rev.Comparison.NorthernCity, Equals, "Екатеринбург")
}

func (s *GazetteerSuite) TestCompareUnknownName(c *C) {
	_, err := s.g.Compare("Unknown City X", "Москва")
	var nf *NameNotFoundError
	c.Assert(errors.As(err, &nf), Equals, true)
	c.Assert(nf.City1Found, Equals, false)
	c.Assert(nf.City2Found, Equals, true)
	c.Assert(err, ErrorMatches, "One or both cities not found")
	c.Assert(KindOf(err), Equals, KindNotFound)
}

func (s *GazetteerSuite) TestCompareInvalidTimezone(c *C) {
	_, err := s.g.Compare("Фантом", "Москва")
	var tzErr *TimezoneError
	c.Assert(errors.As(err, &tzErr), Equals, true)
	c.Assert(tzErr.Zone, Equals, "Mars/Olympus")
	c.Assert(errors.Is(err, ErrTimezone), Equals, true)
}

func (s *GazetteerSuite) TestNearest(c *C) {
	res, err := s.g.Nearest(55.75, 37.61)
	c.Assert(err, IsNil)
	c.Assert(res.City.ID, Equals, "524901")
	c.Assert(res.DistanceKm < 2, Equals, true, Commentf("distance %v", res.DistanceKm))
}
