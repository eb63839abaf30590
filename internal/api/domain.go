package api

import (
	"github.com/harshad-dhokane/new-docx/internal/activity"
	"github.com/harshad-dhokane/new-docx/internal/artifacts"
	"github.com/harshad-dhokane/new-docx/internal/templates"
	"github.com/harshad-dhokane/new-docx/internal/values"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Activity  activity.System
	Templates templates.System
	Artifacts artifacts.System
}

// NewDomain creates all domain systems from the API runtime. When events are
// enabled the Kafka publisher is registered with the lifecycle so pending
// messages flush on shutdown.
func NewDomain(runtime *Runtime) *Domain {
	var publisher activity.Publisher
	if runtime.Events.Enabled {
		publisher = activity.NewKafkaPublisher(runtime.Events.Brokers, runtime.Events.Topic, runtime.Logger)
		publisher.Start(runtime.Lifecycle)
	}

	activitySys := activity.New(
		runtime.Database.Connection(),
		publisher,
		runtime.Logger,
		runtime.Pagination,
	)

	templatesSys := templates.New(
		runtime.Database.Connection(),
		runtime.Storage,
		activitySys,
		runtime.Logger,
		runtime.Pagination,
	)

	normalizer := values.NewNormalizer(
		runtime.Logger,
		runtime.Generation.ImageErrors,
		runtime.Generation.ImageWidth,
		runtime.Generation.ImageHeight,
	)

	artifactsSys := artifacts.New(
		runtime.Database.Connection(),
		runtime.Storage,
		templatesSys,
		artifacts.NewPipeline(normalizer, runtime.Converter, runtime.Logger),
		activitySys,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Activity:  activitySys,
		Templates: templatesSys,
		Artifacts: artifactsSys,
	}
}
