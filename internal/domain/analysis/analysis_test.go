package analysis_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/okian/happiness/internal/domain/analysis"
	"github.com/okian/happiness/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(country string, year, rank int, score, economy float64) model.YearlyRecord {
	return model.YearlyRecord{
		Country:        country,
		Year:           year,
		HappinessRank:  rank,
		HappinessScore: score,
		Economy:        economy,
		Family:         economy / 2,
		Health:         score / 10,
		Freedom:        0.5,
		Trust:          float64(rank),
		Generosity:     0.1 * float64(rank),
	}
}

func sampleYear(year int) []model.YearlyRecord {
	return []model.YearlyRecord{
		rec("Switzerland", year, 2, 7.5, 1.4),
		rec("Finland", year, 1, 7.6, 1.3),
		rec("Spain", year, 3, 6.4, 1.2),
		rec("Brazil", year, 4, 6.3, 1.0),
		rec("India", year, 5, 4.3, 0.7),
		rec("Chad", year, 6, 3.9, 0.3),
		rec("Burundi", year, 7, 2.9, 0.1),
	}
}

func groupOf(p analysis.IncomePartition, country string) (analysis.IncomeGroup, bool) {
	for _, b := range p.Buckets {
		for _, m := range b.Members {
			if m.Country == country {
				return b.Group, true
			}
		}
	}
	return "", false
}

func TestExtremes(t *testing.T) {
	Convey("Given one year of records", t, func() {
		records := sampleYear(2019)

		Convey("When looking up the happiest country", func() {
			r, err := analysis.Happiest(records)

			Convey("Then it is the rank 1 row with the maximum score", func() {
				So(err, ShouldBeNil)
				So(r.Country, ShouldEqual, "Finland")
				So(r.HappinessRank, ShouldEqual, 1)
				for _, other := range records {
					So(r.HappinessScore, ShouldBeGreaterThanOrEqualTo, other.HappinessScore)
				}
			})
		})

		Convey("When looking up the least happy country", func() {
			r, err := analysis.LeastHappy(records)
			So(err, ShouldBeNil)
			So(r.Country, ShouldEqual, "Burundi")
		})

		Convey("When two rows tie on score", func() {
			tied := []model.YearlyRecord{
				rec("Norway", 2017, 2, 7.5, 1.5),
				rec("Denmark", 2017, 1, 7.5, 1.4),
				rec("Togo", 2017, 9, 2.7, 0.2),
				rec("Syria", 2017, 8, 2.7, 0.3),
			}

			Convey("Then the rank field breaks the tie", func() {
				h, _ := analysis.Happiest(tied)
				l, _ := analysis.LeastHappy(tied)
				So(h.Country, ShouldEqual, "Denmark")
				So(l.Country, ShouldEqual, "Togo")
			})

			Convey("And without ranks the alphabetical order breaks it", func() {
				norank := []model.YearlyRecord{
					rec("Norway", 2017, 0, 7.5, 1.5),
					rec("Denmark", 2017, 0, 7.5, 1.4),
				}
				h, _ := analysis.Happiest(norank)
				l, _ := analysis.LeastHappy(norank)
				So(h.Country, ShouldEqual, "Denmark")
				So(l.Country, ShouldEqual, "Denmark")
			})
		})

		Convey("When the subset is empty", func() {
			_, err := analysis.Happiest(nil)
			So(err, ShouldEqual, analysis.ErrInsufficientData)
		})
	})
}

func TestPearson(t *testing.T) {
	Convey("Given a pooled dataset", t, func() {
		records := append(sampleYear(2018), sampleYear(2019)...)
		economy := make([]float64, len(records))
		for i, r := range records {
			economy[i] = r.Economy
		}

		Convey("Then a feature correlated with itself is 1", func() {
			r, err := analysis.Pearson(economy, economy)
			So(err, ShouldBeNil)
			So(r, ShouldAlmostEqual, 1.0, 1e-9)
		})

		Convey("And a negated feature correlates at -1", func() {
			neg := make([]float64, len(economy))
			for i, v := range economy {
				neg[i] = -v
			}
			r, err := analysis.Pearson(economy, neg)
			So(err, ShouldBeNil)
			So(r, ShouldAlmostEqual, -1.0, 1e-9)
		})

		Convey("And NaN pairs are skipped", func() {
			x := []float64{1, 2, math.NaN(), 4}
			y := []float64{2, 4, 100, 8}
			r, err := analysis.Pearson(x, y)
			So(err, ShouldBeNil)
			So(r, ShouldAlmostEqual, 1.0, 1e-9)
		})

		Convey("And fewer than two pairs is insufficient", func() {
			_, err := analysis.Pearson([]float64{1}, []float64{2})
			So(err, ShouldEqual, analysis.ErrInsufficientData)
		})
	})

	Convey("Given scores and exact linear functions of them", t, func() {
		rng := rand.New(rand.NewSource(7))
		for trial := 0; trial < 500; trial++ {
			n := 3 + rng.Intn(150)
			score := make([]float64, n)
			up := make([]float64, n)
			down := make([]float64, n)
			slope, offset := 0.01+rng.Float64()*3, rng.Float64()*2-1
			for i := range score {
				score[i] = 2.5 + rng.Float64()*5.5
				up[i] = slope*score[i] + offset
				down[i] = offset - slope*score[i]
			}

			r, err := analysis.Pearson(up, score)
			So(err, ShouldBeNil)
			So(r, ShouldBeBetweenOrEqual, -1, 1)
			So(r, ShouldAlmostEqual, 1.0, 1e-9)

			r, err = analysis.Pearson(down, score)
			So(err, ShouldBeNil)
			So(r, ShouldBeBetweenOrEqual, -1, 1)
			So(r, ShouldAlmostEqual, -1.0, 1e-9)
		}
	})
}

func TestFeatureCorrelations(t *testing.T) {
	Convey("Given a pooled dataset", t, func() {
		records := append(sampleYear(2018), sampleYear(2019)...)

		Convey("When computing feature correlations", func() {
			corr, err := analysis.FeatureCorrelations(records)

			Convey("Then every feature is reported once", func() {
				So(err, ShouldBeNil)
				So(len(corr), ShouldEqual, 6)
				seen := map[model.Feature]bool{}
				for _, c := range corr {
					seen[c.Feature] = true
				}
				So(len(seen), ShouldEqual, 6)
			})

			Convey("And defined coefficients are ascending and within [-1, 1]", func() {
				prev := math.Inf(-1)
				for _, c := range corr {
					if math.IsNaN(c.Coefficient) {
						continue
					}
					So(c.Coefficient, ShouldBeBetweenOrEqual, -1, 1)
					So(c.Coefficient, ShouldBeGreaterThanOrEqualTo, prev)
					prev = c.Coefficient
				}
			})

			Convey("And the constant Freedom column is undefined and sorted last", func() {
				So(corr[len(corr)-1].Feature, ShouldEqual, model.Freedom)
				So(math.IsNaN(corr[len(corr)-1].Coefficient), ShouldBeTrue)
			})

			Convey("And Health, a linear function of the score, correlates at 1", func() {
				for _, c := range corr {
					if c.Feature == model.Health {
						So(c.Coefficient, ShouldAlmostEqual, 1.0, 1e-9)
					}
				}
				f, ok := analysis.StrongestFeature(corr)
				So(ok, ShouldBeTrue)
				So(f, ShouldEqual, model.Health)
			})
		})

		Convey("When fewer than two rows are available", func() {
			_, err := analysis.FeatureCorrelations(records[:1])
			So(err, ShouldEqual, analysis.ErrInsufficientData)
		})
	})
}

func TestFeatureSummary(t *testing.T) {
	Convey("Given a pooled dataset", t, func() {
		records := sampleYear(2019)

		Convey("When summarizing features", func() {
			summary, err := analysis.FeatureSummary(records)

			Convey("Then means are sorted descending", func() {
				So(err, ShouldBeNil)
				So(len(summary), ShouldEqual, 6)
				for i := 1; i < len(summary); i++ {
					So(summary[i-1].Mean, ShouldBeGreaterThanOrEqualTo, summary[i].Mean)
				}
			})

			Convey("And the constant column has zero deviation", func() {
				for _, s := range summary {
					if s.Feature == model.Freedom {
						So(s.Mean, ShouldAlmostEqual, 0.5, 1e-12)
						So(s.Std, ShouldAlmostEqual, 0, 1e-12)
					}
				}
			})
		})

		Convey("When the dataset is empty", func() {
			_, err := analysis.FeatureSummary(nil)
			So(err, ShouldEqual, analysis.ErrInsufficientData)
		})
	})
}

func TestGroupByIncome(t *testing.T) {
	Convey("Given one year of records", t, func() {
		records := append(sampleYear(2019), rec("Haiti", 2019, 8, 3.6, 0.3))

		Convey("When grouping by income quartile", func() {
			p := analysis.GroupByIncome(records)

			Convey("Then there are four buckets in ascending label order", func() {
				So(len(p.Buckets), ShouldEqual, 4)
				for i, g := range analysis.IncomeGroups() {
					So(p.Buckets[i].Group, ShouldEqual, g)
				}
			})

			Convey("And every row lands in exactly one bucket", func() {
				seen := map[string]int{}
				total := 0
				for _, b := range p.Buckets {
					for _, m := range b.Members {
						seen[m.Country]++
						total++
						So(m.Economy, ShouldBeBetweenOrEqual, b.Lower, b.Upper)
					}
				}
				So(total, ShouldEqual, len(records))
				for _, r := range records {
					So(seen[r.Country], ShouldEqual, 1)
				}
				So(p.Unassigned, ShouldBeEmpty)
			})

			Convey("And edges follow linear interpolation on sorted order", func() {
				// sorted: 0.1 0.3 0.3 0.7 1.0 1.2 1.3 1.4
				So(p.Edges[0], ShouldAlmostEqual, 0.1, 1e-12)
				So(p.Edges[1], ShouldAlmostEqual, 0.3, 1e-12)
				So(p.Edges[2], ShouldAlmostEqual, 0.85, 1e-12)
				So(p.Edges[3], ShouldAlmostEqual, 1.225, 1e-12)
				So(p.Edges[4], ShouldAlmostEqual, 1.4, 1e-12)
			})

			Convey("And ties at the lower boundary fall into the lower bucket", func() {
				g, ok := groupOf(p, "Chad")
				So(ok, ShouldBeTrue)
				So(g, ShouldEqual, analysis.LowIncome)
				g, _ = groupOf(p, "Haiti")
				So(g, ShouldEqual, analysis.LowIncome)
				g, _ = groupOf(p, "Finland")
				So(g, ShouldEqual, analysis.HighIncome)
			})

			Convey("And box statistics describe member scores", func() {
				high := p.Buckets[3]
				So(high.Box.Count, ShouldEqual, len(high.Members))
				So(high.Box.Min, ShouldBeLessThanOrEqualTo, high.Box.Median)
				So(high.Box.Median, ShouldBeLessThanOrEqualTo, high.Box.Max)
			})
		})

		Convey("When the subset has fewer than four rows", func() {
			p := analysis.GroupByIncome(records[:2])

			Convey("Then rows are kept and some buckets are empty", func() {
				total, empty := 0, 0
				for _, b := range p.Buckets {
					total += len(b.Members)
					if len(b.Members) == 0 {
						empty++
					}
				}
				So(total, ShouldEqual, 2)
				So(empty, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When a row has no Economy value", func() {
			withNaN := append(sampleYear(2019), rec("Somewhere", 2019, 9, 5.0, math.NaN()))
			p := analysis.GroupByIncome(withNaN)

			Convey("Then it is reported as unassigned", func() {
				So(len(p.Unassigned), ShouldEqual, 1)
				So(p.Unassigned[0].Country, ShouldEqual, "Somewhere")
			})
		})

		Convey("When the subset is empty", func() {
			p := analysis.GroupByIncome(nil)
			So(len(p.Buckets), ShouldEqual, 4)
			for _, b := range p.Buckets {
				So(b.Members, ShouldBeEmpty)
				So(b.Box.Count, ShouldEqual, 0)
			}
		})
	})
}

func TestCompare(t *testing.T) {
	Convey("Given two years of records", t, func() {
		records := append(sampleYear(2018), sampleYear(2019)...)

		Convey("When comparing two present countries", func() {
			c := analysis.Compare(records, "Spain", "Brazil", 2019)

			Convey("Then long-format factors keep the fixed order per country", func() {
				So(c.HasData, ShouldBeTrue)
				So(len(c.Factors), ShouldEqual, 12)
				features := model.Features()
				for i, fv := range c.Factors {
					So(fv.Feature, ShouldEqual, features[i%6])
					if i < 6 {
						So(fv.Country, ShouldEqual, "Spain")
					} else {
						So(fv.Country, ShouldEqual, "Brazil")
					}
				}
			})

			Convey("And the score difference and winner are set", func() {
				So(c.ScoreDiff, ShouldAlmostEqual, 0.1, 1e-9)
				So(c.Winner, ShouldNotBeNil)
				So(*c.Winner, ShouldEqual, "Spain")
			})

			Convey("And swapping the countries negates the difference and swaps the winner", func() {
				r := analysis.Compare(records, "Brazil", "Spain", 2019)
				So(r.ScoreDiff, ShouldAlmostEqual, -c.ScoreDiff, 1e-12)
				So(*r.Winner, ShouldEqual, "Spain")
				So(r.CountryA, ShouldEqual, c.CountryB)
			})
		})

		Convey("When one country has no row for the year", func() {
			c := analysis.Compare(records, "Spain", "Atlantis", 2019)

			Convey("Then the result reports no data instead of failing", func() {
				So(c.HasData, ShouldBeFalse)
				So(c.Factors, ShouldBeEmpty)
				So(c.Winner, ShouldBeNil)
			})
		})

		Convey("When the year is absent", func() {
			So(analysis.Compare(records, "Spain", "Brazil", 2015).HasData, ShouldBeFalse)
		})

		Convey("When both scores tie", func() {
			c := analysis.Compare(records, "Spain", "Spain", 2018)
			So(c.HasData, ShouldBeTrue)
			So(c.ScoreDiff, ShouldEqual, 0)
			So(c.Winner, ShouldBeNil)
		})
	})
}

func TestGlobalAverage(t *testing.T) {
	Convey("Given years with different country coverage", t, func() {
		records := []model.YearlyRecord{
			rec("A", 2015, 1, 8, 1),
			rec("B", 2015, 2, 2, 1),
			rec("A", 2016, 1, 6, 1),
			rec("B", 2016, 2, 4, 1),
			rec("C", 2016, 3, 2, 1),
			rec("A", 2017, 1, 9, 1),
		}

		Convey("When computing the global average", func() {
			avg := analysis.GlobalAverage(records)

			Convey("Then each year gets its own mean in ascending order", func() {
				So(len(avg), ShouldEqual, 3)
				So(avg[0], ShouldResemble, analysis.YearMean{Year: 2015, Mean: 5, Count: 2})
				So(avg[1], ShouldResemble, analysis.YearMean{Year: 2016, Mean: 4, Count: 3})
				So(avg[2], ShouldResemble, analysis.YearMean{Year: 2017, Mean: 9, Count: 1})
			})

			Convey("And it differs from the pooled mean when coverage varies", func() {
				pooled := (8.0 + 2 + 6 + 4 + 2 + 9) / 6
				perYear := (avg[0].Mean + avg[1].Mean + avg[2].Mean) / 3
				So(perYear, ShouldNotAlmostEqual, pooled, 1e-9)
			})
		})

		Convey("When a score is missing", func() {
			withNaN := append(records, rec("D", 2017, 2, math.NaN(), 1))
			avg := analysis.GlobalAverage(withNaN)
			So(avg[2].Mean, ShouldEqual, 9)
			So(avg[2].Count, ShouldEqual, 1)
		})
	})
}

func TestEvolution(t *testing.T) {
	Convey("Given records across all report years", t, func() {
		var records []model.YearlyRecord
		for _, y := range model.Years() {
			records = append(records, sampleYear(y)...)
		}
		records[0].HappinessScore = 7.0 // Switzerland 2015

		Convey("When building the evolution of selected countries", func() {
			series := analysis.Evolution(records, []string{"Switzerland", "Atlantis", "Switzerland"})

			Convey("Then duplicates are dropped and request order is kept", func() {
				So(len(series), ShouldEqual, 2)
				So(series[0].Country, ShouldEqual, "Switzerland")
				So(len(series[0].Points), ShouldEqual, 5)
				So(series[1].Points, ShouldBeEmpty)
				for i := 1; i < len(series[0].Points); i++ {
					So(series[0].Points[i].Year, ShouldBeGreaterThan, series[0].Points[i-1].Year)
				}
			})

			Convey("And country stats carry the mean and the first-to-last delta", func() {
				stats := analysis.CountryStats(series)
				So(stats[0].Years, ShouldEqual, 5)
				So(stats[0].Mean, ShouldAlmostEqual, (7.0+7.5*4)/5, 1e-9)
				So(stats[0].Delta, ShouldNotBeNil)
				So(*stats[0].Delta, ShouldAlmostEqual, 0.5, 1e-9)
				So(stats[1].Delta, ShouldBeNil)
				So(math.IsNaN(stats[1].Mean), ShouldBeTrue)
			})
		})
	})
}

func TestBox(t *testing.T) {
	Convey("Given a sample", t, func() {
		b := analysis.Box([]float64{4, 1, 3, 2, math.NaN()})

		Convey("Then the five-number summary uses linear interpolation", func() {
			So(b.Count, ShouldEqual, 4)
			So(b.Min, ShouldEqual, 1)
			So(b.Q1, ShouldAlmostEqual, 1.75, 1e-12)
			So(b.Median, ShouldAlmostEqual, 2.5, 1e-12)
			So(b.Q3, ShouldAlmostEqual, 3.25, 1e-12)
			So(b.Max, ShouldEqual, 4)
		})
	})
}
