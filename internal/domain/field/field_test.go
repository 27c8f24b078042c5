package field_test

import (
	"testing"
	"time"

	"github.com/okian/clientscore/internal/domain/field"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPresenceChecks(t *testing.T) {
	Convey("Given required non-nullable validators of every variant", t, func() {
		validators := map[string]field.Field{
			"char":       field.NewChar(),
			"arguments":  field.NewArguments(),
			"email":      field.NewEmail(),
			"phone":      field.NewPhone(),
			"date":       field.NewDate(),
			"birthday":   field.NewBirthday(),
			"gender":     field.NewGender(),
			"client_ids": field.NewClientIDs(),
		}

		Convey("When cleaning an absent value", func() {
			Convey("Then every variant fails with the required kind", func() {
				for name, f := range validators {
					_, err := f.Clean(nil)
					So(err, ShouldWrap, field.ErrRequired)
					So(name, ShouldNotBeEmpty)
				}
			})
		})

		Convey("When cleaning canonical empty values", func() {
			Convey("Then an empty string is rejected", func() {
				_, err := field.NewChar().Clean("")
				So(err, ShouldWrap, field.ErrEmptyValue)
			})
			Convey("Then an empty list is rejected", func() {
				_, err := field.NewClientIDs().Clean([]any{})
				So(err, ShouldWrap, field.ErrEmptyValue)
			})
			Convey("Then an empty object is rejected", func() {
				_, err := field.NewArguments().Clean(map[string]any{})
				So(err, ShouldWrap, field.ErrEmptyValue)
			})
		})

		Convey("When a field is optional", func() {
			f := field.NewChar(field.Optional())

			Convey("Then an absent value cleans to nil", func() {
				v, err := f.Clean(nil)
				So(err, ShouldBeNil)
				So(v, ShouldBeNil)
			})
		})

		Convey("When a field is nullable", func() {
			f := field.NewChar(field.Nullable())

			Convey("Then an empty string is accepted", func() {
				v, err := f.Clean("")
				So(err, ShouldBeNil)
				So(v, ShouldEqual, "")
			})
		})
	})
}

func TestCharAndEmail(t *testing.T) {
	Convey("Given a char validator", t, func() {
		f := field.NewChar()

		Convey("When cleaning a non-string", func() {
			_, err := f.Clean(42.0)

			Convey("Then it fails with the type kind", func() {
				So(err, ShouldWrap, field.ErrType)
			})
		})

		Convey("When cleaning a string", func() {
			v, err := f.Clean("otus")

			Convey("Then the value passes through", func() {
				So(err, ShouldBeNil)
				So(v, ShouldEqual, "otus")
			})
		})
	})

	Convey("Given an email validator", t, func() {
		f := field.NewEmail()

		Convey("When the value lacks an @", func() {
			_, err := f.Clean("stupnikov.otus.ru")

			Convey("Then it fails with the format kind", func() {
				So(err, ShouldWrap, field.ErrFormat)
			})
		})

		Convey("When the value contains an @", func() {
			v, err := f.Clean("stupnikov@otus.ru")

			Convey("Then it is accepted unchanged", func() {
				So(err, ShouldBeNil)
				So(v, ShouldEqual, "stupnikov@otus.ru")
			})
		})
	})
}

func TestPhone(t *testing.T) {
	Convey("Given a phone validator", t, func() {
		f := field.NewPhone()

		Convey("When cleaning an integer-typed number", func() {
			v, err := f.Clean(float64(79104823345))

			Convey("Then it normalizes to a string", func() {
				So(err, ShouldBeNil)
				So(v, ShouldEqual, "79104823345")
			})
		})

		Convey("When cleaning a string number", func() {
			v, err := f.Clean("79104823345")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "79104823345")
		})

		Convey("When the leading digit is wrong", func() {
			_, err := f.Clean("89104823345")
			So(err, ShouldWrap, field.ErrFormat)
		})

		Convey("When the length is wrong", func() {
			_, err := f.Clean("7910482334")
			So(err, ShouldWrap, field.ErrFormat)
		})

		Convey("When the value is neither text nor integer", func() {
			_, err := f.Clean([]any{"79104823345"})
			So(err, ShouldWrap, field.ErrType)
		})
	})
}

func TestDateAndBirthday(t *testing.T) {
	Convey("Given a date validator", t, func() {
		f := field.NewDate()

		Convey("When cleaning a well-formed date", func() {
			v, err := f.Clean("20.01.2018")

			Convey("Then it parses to the calendar date", func() {
				So(err, ShouldBeNil)
				So(v, ShouldResemble, time.Date(2018, 1, 20, 0, 0, 0, 0, time.UTC))
			})
		})

		Convey("When the day does not exist for the month", func() {
			_, err := f.Clean("31.06.2018")
			So(err, ShouldWrap, field.ErrFormat)
		})

		Convey("When the separator is wrong", func() {
			_, err := f.Clean("2018-01-20")
			So(err, ShouldWrap, field.ErrFormat)
		})
	})

	Convey("Given a birthday validator pinned to a fixed clock", t, func() {
		now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
		f := field.NewBirthdayWith(nil, field.WithClock(func() time.Time { return now }))

		Convey("When the date is seventy years minus a day before now", func() {
			v, err := f.Clean("16.06.1954")

			Convey("Then it is accepted", func() {
				So(err, ShouldBeNil)
				So(v, ShouldNotBeNil)
			})
		})

		Convey("When the date is seventy-one years before now", func() {
			_, err := f.Clean("15.06.1953")

			Convey("Then it fails with the range kind", func() {
				So(err, ShouldWrap, field.ErrRange)
			})
		})
	})
}

func TestGender(t *testing.T) {
	Convey("Given a gender validator", t, func() {
		f := field.NewGender()

		Convey("When cleaning each recognized code", func() {
			for code := range field.GenderNames {
				v, err := f.Clean(float64(code))
				So(err, ShouldBeNil)
				So(v, ShouldEqual, code)
			}
		})

		Convey("When the value is not an integer", func() {
			_, err := f.Clean("male")
			So(err, ShouldWrap, field.ErrType)
		})

		Convey("When the value is a fractional number", func() {
			_, err := f.Clean(1.5)
			So(err, ShouldWrap, field.ErrType)
		})

		Convey("When the code is unrecognized", func() {
			_, err := f.Clean(float64(3))
			So(err, ShouldWrap, field.ErrRange)
		})
	})
}

func TestClientIDs(t *testing.T) {
	Convey("Given a client-identifier validator", t, func() {
		f := field.NewClientIDs()

		Convey("When cleaning a list of numbers", func() {
			v, err := f.Clean([]any{float64(1), float64(2), float64(3)})

			Convey("Then it normalizes to []int", func() {
				So(err, ShouldBeNil)
				So(v, ShouldResemble, []int{1, 2, 3})
			})
		})

		Convey("When the value is not a list", func() {
			_, err := f.Clean("1,2,3")
			So(err, ShouldWrap, field.ErrType)
		})

		Convey("When an element is not an integer", func() {
			_, err := f.Clean([]any{float64(1), "two"})
			So(err, ShouldWrap, field.ErrElementType)
		})
	})
}
