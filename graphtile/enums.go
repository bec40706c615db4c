package graphtile

// RoadClass orders roads by functional importance, coarsest first. Its
// numeric values are part of the on-disk wire format.
type RoadClass uint8

const (
	RoadClassMotorway RoadClass = iota
	RoadClassTrunk
	RoadClassPrimary
	RoadClassSecondary
	RoadClassTertiary
	RoadClassUnclassified
	RoadClassResidential
	RoadClassServiceOther
)

// RoadUse further classifies an edge beyond its RoadClass.
type RoadUse uint8

const (
	RoadUseRoad               RoadUse = 0
	RoadUseRamp               RoadUse = 1
	RoadUseTurnChannel        RoadUse = 2
	RoadUseTrack              RoadUse = 3
	RoadUseDriveway           RoadUse = 4
	RoadUseAlley              RoadUse = 5
	RoadUseParkingAisle       RoadUse = 6
	RoadUseEmergencyAccess    RoadUse = 7
	RoadUseDriveThru          RoadUse = 8
	RoadUseCulDeSac           RoadUse = 9
	RoadUseLivingStreet       RoadUse = 10
	RoadUseServiceRoad        RoadUse = 11
	RoadUseCycleway           RoadUse = 20
	RoadUseMountainBike       RoadUse = 21
	RoadUseSidewalk           RoadUse = 24
	RoadUseFootway            RoadUse = 25
	RoadUseSteps              RoadUse = 26
	RoadUsePath               RoadUse = 27
	RoadUsePedestrian         RoadUse = 28
	RoadUseBridleway          RoadUse = 29
	RoadUseRestArea           RoadUse = 30
	RoadUseServiceArea        RoadUse = 31
	RoadUsePedestrianCrossing RoadUse = 32
	RoadUseElevator           RoadUse = 33
	RoadUseEscalator          RoadUse = 34
	RoadUsePlatform           RoadUse = 35
	RoadUseOther              RoadUse = 40
	RoadUseFerry              RoadUse = 41
	RoadUseRailFerry          RoadUse = 42
	RoadUseConstruction       RoadUse = 43
	RoadUseRail               RoadUse = 50
	RoadUseBus                RoadUse = 51
	RoadUseEgressConnection   RoadUse = 52
	RoadUsePlatformConnection RoadUse = 53
	RoadUseTransitConnection  RoadUse = 54
)

// Access is a bitmask of travel modes, low to high: Auto, Pedestrian,
// Bicycle, Truck, Emergency, Taxi, Bus, HOV, Wheelchair, Moped,
// Motorcycle, GolfCart.
type Access uint16

const (
	AccessAuto Access = 1 << iota
	AccessPedestrian
	AccessBicycle
	AccessTruck
	AccessEmergency
	AccessTaxi
	AccessBus
	AccessHOV
	AccessWheelchair
	AccessMoped
	AccessMotorcycle
	AccessGolfCart
)

// AccessRestrictionType tags the semantics of an AccessRestriction's value.
type AccessRestrictionType uint8

const (
	AccessRestrictionHazmat AccessRestrictionType = iota
	AccessRestrictionMaxHeight
	AccessRestrictionMaxWidth
	AccessRestrictionMaxLength
	AccessRestrictionMaxWeight
	AccessRestrictionMaxAxleLoad
	AccessRestrictionTimedAllowed
	AccessRestrictionTimedDenied
	AccessRestrictionDestinationAllowed
	AccessRestrictionMaxAxles
)

// SignType tags the semantics of a Sign's text.
type SignType uint8

const (
	SignTypeExitNumber SignType = iota
	SignTypeExitBranch
	SignTypeExitToward
	SignTypeExitName
	SignTypeGuideBranch
	SignTypeGuideToward
	SignTypeJunctionName
	SignTypeGuidanceViewJunction
	SignTypeGuidanceViewSignboard
	SignTypeTollName
	SignTypeLinguistic SignType = 255
)

// BicycleNetwork is a bitmask: a way may belong to more than one network.
type BicycleNetwork uint8

const (
	NationalBicycleNetwork BicycleNetwork = 1 << iota
	RegionalBicycleNetwork
	LocalBicycleNetwork
	MountainBicycleNetwork
)

// Surface grades the physical condition of the roadway.
type Surface uint8

const (
	SurfacePavedSmooth Surface = iota
	SurfacePaved
	SurfacePavedRough
	SurfaceCompacted
	SurfaceDirt
	SurfaceGravel
	SurfacePath
	SurfaceImpassable
)

// CycleLane describes the provisioning of a bike lane along an edge.
type CycleLane uint8

const (
	CycleLaneNone CycleLane = iota
	CycleLaneShared
	CycleLaneDedicated
	CycleLaneSeparated
)
