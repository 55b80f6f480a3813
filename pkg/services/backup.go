// pkg/services/backup.go
package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	cfg "album-shuffle/config"
	"album-shuffle/pkg/utils"

	gcs "cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/Azure/azure-storage-blob-go/azblob"
	"github.com/sirupsen/logrus"
)

// backupPrefix namespaces the uploaded user files inside the bucket.
const backupPrefix = "userdata/"

// BackupService copies the per-user annotation files to a cloud bucket
// and restores them. Only the JSON files are uploaded; temp siblings
// from in-flight atomic writes are skipped.
type BackupService struct {
	pathManager       *utils.PathManager
	config            *cfg.Config
	log               *utils.Logger
	awsSession        *session.Session
	s3Client          *s3.S3
	gcsClient         *gcs.Client
	azureContainerURL azblob.ContainerURL
}

func NewBackupService(config *cfg.Config, log *utils.Logger) (*BackupService, error) {
	if config == nil {
		return nil, fmt.Errorf("invalid configuration: config is nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	srv := &BackupService{
		pathManager: utils.NewPathManager(config.Storage.ImagesDir, config.Storage.DataDir, log),
		config:      config,
		log:         log,
	}

	if !config.Backup.Enabled {
		log.Info("Backup is disabled")
		return nil, nil
	}

	secrets := cfg.LoadSecrets()
	switch {
	case config.Backup.AWS.Bucket != "":
		if err := srv.initAWSClient(secrets.AWSAccessKeyID, secrets.AWSSecretAccessKey); err != nil {
			return nil, fmt.Errorf("failed to initialize AWS client: %w", err)
		}
	case config.Backup.GCP.Bucket != "":
		if err := srv.initGCPClient(secrets.GCPCredentialsFile); err != nil {
			return nil, fmt.Errorf("failed to initialize GCP client: %w", err)
		}
	case config.Backup.Azure.Container != "":
		if err := srv.initAzureClient(secrets.AzureStorageAccountKey); err != nil {
			return nil, fmt.Errorf("failed to initialize Azure client: %w", err)
		}
	default:
		log.Info("No backup provider configured")
		return nil, nil
	}

	return srv, nil
}

func (s *BackupService) initAWSClient(accessKey, secretKey string) error {
	s.log.WithFunc().WithFields(logrus.Fields{
		"region": s.config.Backup.AWS.Region,
		"bucket": s.config.Backup.AWS.Bucket,
	}).Debug("Initializing AWS client")

	if accessKey == "" || secretKey == "" {
		return fmt.Errorf("AWS credentials not provided")
	}
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(s.config.Backup.AWS.Region),
		Credentials: credentials.NewStaticCredentials(accessKey, secretKey, ""),
	})
	if err != nil {
		return fmt.Errorf("failed to create AWS session: %w", err)
	}

	s.awsSession = sess
	s.s3Client = s3.New(sess)
	return nil
}

func (s *BackupService) initGCPClient(credentialsFile string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if s.config.Backup.GCP.Bucket == "" {
		return fmt.Errorf("GCP bucket name is not configured")
	}
	if credentialsFile == "" {
		return fmt.Errorf("GCP credentials file path not provided")
	}
	if _, err := os.Stat(credentialsFile); err != nil {
		s.log.WithFunc().WithError(err).WithField("credentialsPath", credentialsFile).Error("Credentials file check failed")
		return fmt.Errorf("credentials file not found: %w", err)
	}

	client, err := gcs.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return fmt.Errorf("failed to create GCP client: %w", err)
	}

	bucket := client.Bucket(s.config.Backup.GCP.Bucket)
	if _, err := bucket.Attrs(ctx); err != nil {
		client.Close()
		if err == gcs.ErrBucketNotExist {
			return fmt.Errorf("bucket %s does not exist", s.config.Backup.GCP.Bucket)
		}
		return fmt.Errorf("failed to access bucket %s: %w", s.config.Backup.GCP.Bucket, err)
	}

	s.gcsClient = client
	s.log.WithFunc().WithField("bucket", s.config.Backup.GCP.Bucket).Info("GCP client initialized successfully")
	return nil
}

func (s *BackupService) initAzureClient(accountKey string) error {
	s.log.WithFunc().WithFields(logrus.Fields{
		"storageAccount": s.config.Backup.Azure.StorageAccount,
		"container":      s.config.Backup.Azure.Container,
	}).Debug("Initializing Azure client")

	if s.config.Backup.Azure.StorageAccount == "" {
		return fmt.Errorf("Azure storage account name is not configured")
	}
	if accountKey == "" {
		return fmt.Errorf("Azure storage account key not provided")
	}

	credential, err := azblob.NewSharedKeyCredential(s.config.Backup.Azure.StorageAccount, accountKey)
	if err != nil {
		return fmt.Errorf("failed to create Azure credentials: %w", err)
	}

	pipeline := azblob.NewPipeline(credential, azblob.PipelineOptions{})

	containerURL, err := url.Parse(fmt.Sprintf("https://%s.blob.core.windows.net/%s",
		s.config.Backup.Azure.StorageAccount,
		s.config.Backup.Azure.Container))
	if err != nil {
		return fmt.Errorf("failed to parse container URL: %w", err)
	}

	s.azureContainerURL = azblob.NewContainerURL(*containerURL, pipeline)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err = s.azureContainerURL.GetProperties(ctx, azblob.LeaseAccessConditions{})
	if err != nil {
		if storageErr, ok := err.(azblob.StorageError); ok && storageErr.ServiceCode() == azblob.ServiceCodeContainerNotFound {
			s.log.WithFunc().WithField("container", s.config.Backup.Azure.Container).Info("Container does not exist, creating it")
			if _, err := s.azureContainerURL.Create(ctx, azblob.Metadata{}, azblob.PublicAccessNone); err != nil {
				return fmt.Errorf("failed to create container %s: %w", s.config.Backup.Azure.Container, err)
			}
		} else {
			return fmt.Errorf("failed to access Azure container %s: %w", s.config.Backup.Azure.Container, err)
		}
	}

	s.log.WithFunc().Info("Azure client initialized successfully")
	return nil
}

// userDataFiles lists the per-user JSON files in the data directory.
func (s *BackupService) userDataFiles() ([]string, error) {
	entries, err := os.ReadDir(s.pathManager.GetDataDir())
	if err != nil {
		return nil, fmt.Errorf("data directory not accessible: %w", err)
	}

	files := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		files = append(files, entry.Name())
	}
	return files, nil
}

// BackupData uploads every user annotation file to the configured provider.
func (s *BackupService) BackupData() error {
	files, err := s.userDataFiles()
	if err != nil {
		s.log.WithFunc().WithError(err).Error("Failed to list user data files")
		return err
	}

	s.log.WithFunc().WithField("files", len(files)).Debug("Starting backup")

	switch {
	case s.config.Backup.Provider == "aws" && s.awsSession != nil:
		return s.backupToAWS(files)
	case s.config.Backup.Provider == "gcp" && s.gcsClient != nil:
		return s.backupToGCP(files)
	case s.config.Backup.Provider == "azure" && s.azureContainerURL.URL().Host != "":
		return s.backupToAzure(files)
	}
	return fmt.Errorf("no backup provider configured")
}

func (s *BackupService) backupToAWS(files []string) error {
	uploader := s3manager.NewUploader(s.awsSession)

	for _, name := range files {
		file, err := os.Open(filepath.Join(s.pathManager.GetDataDir(), name))
		if err != nil {
			s.log.WithFunc().WithError(err).WithField("file", name).Error("Failed to open user data file")
			return err
		}

		_, err = uploader.Upload(&s3manager.UploadInput{
			Bucket: aws.String(s.config.Backup.AWS.Bucket),
			Key:    aws.String(backupPrefix + name),
			Body:   file,
		})
		file.Close()
		if err != nil {
			s.log.WithFunc().WithError(err).WithField("file", name).Error("Failed to upload file")
			return fmt.Errorf("failed to upload %s: %w", name, err)
		}

		s.log.WithFunc().WithField("file", name).Info("User data uploaded")
	}
	return nil
}

func (s *BackupService) backupToGCP(files []string) error {
	ctx := context.Background()
	bucket := s.gcsClient.Bucket(s.config.Backup.GCP.Bucket)

	for _, name := range files {
		file, err := os.Open(filepath.Join(s.pathManager.GetDataDir(), name))
		if err != nil {
			s.log.WithFunc().WithError(err).WithField("file", name).Error("Failed to open user data file")
			return err
		}

		writer := bucket.Object(backupPrefix + name).NewWriter(ctx)
		_, err = io.Copy(writer, file)
		file.Close()
		if err != nil {
			writer.Close()
			s.log.WithFunc().WithError(err).WithField("file", name).Error("Failed to upload file")
			return fmt.Errorf("failed to upload %s: %w", name, err)
		}
		if err := writer.Close(); err != nil {
			s.log.WithFunc().WithError(err).WithField("file", name).Error("Failed to finalize upload")
			return err
		}

		s.log.WithFunc().WithField("file", name).Info("User data uploaded")
	}
	return nil
}

func (s *BackupService) backupToAzure(files []string) error {
	ctx := context.Background()

	for _, name := range files {
		file, err := os.Open(filepath.Join(s.pathManager.GetDataDir(), name))
		if err != nil {
			s.log.WithFunc().WithError(err).WithField("file", name).Error("Failed to open user data file")
			return err
		}

		blobURL := s.azureContainerURL.NewBlockBlobURL(backupPrefix + name)
		_, err = azblob.UploadFileToBlockBlob(ctx, file, blobURL, azblob.UploadToBlockBlobOptions{
			BlockSize:   4 * 1024 * 1024,
			Parallelism: 4,
		})
		file.Close()
		if err != nil {
			s.log.WithFunc().WithError(err).WithField("file", name).Error("Failed to upload file")
			return fmt.Errorf("failed to upload %s: %w", name, err)
		}

		s.log.WithFunc().WithField("file", name).Info("User data uploaded")
	}
	return nil
}

// RestoreData downloads every backed-up user file into the data
// directory, overwriting local state.
func (s *BackupService) RestoreData() error {
	s.log.WithFunc().Debug("Starting restore")

	switch {
	case s.awsSession != nil:
		return s.restoreFromAWS()
	case s.gcsClient != nil:
		return s.restoreFromGCP()
	case s.azureContainerURL.URL().Host != "":
		return fmt.Errorf("Azure restore not implemented")
	}
	return fmt.Errorf("no restore provider configured")
}

func (s *BackupService) restoreFromAWS() error {
	downloader := s3manager.NewDownloader(s.awsSession)

	out, err := s.s3Client.ListObjectsV2(&s3.ListObjectsV2Input{
		Bucket: aws.String(s.config.Backup.AWS.Bucket),
		Prefix: aws.String(backupPrefix),
	})
	if err != nil {
		return fmt.Errorf("failed to list backup objects: %w", err)
	}

	for _, obj := range out.Contents {
		name := strings.TrimPrefix(aws.StringValue(obj.Key), backupPrefix)
		if name == "" {
			continue
		}

		file, err := os.Create(filepath.Join(s.pathManager.GetDataDir(), name))
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}

		_, err = downloader.Download(file, &s3.GetObjectInput{
			Bucket: aws.String(s.config.Backup.AWS.Bucket),
			Key:    obj.Key,
		})
		file.Close()
		if err != nil {
			return fmt.Errorf("failed to download %s: %w", name, err)
		}

		s.log.WithFunc().WithField("file", name).Info("User data restored")
	}
	return nil
}

func (s *BackupService) restoreFromGCP() error {
	ctx := context.Background()
	bucket := s.gcsClient.Bucket(s.config.Backup.GCP.Bucket)

	it := bucket.Objects(ctx, &gcs.Query{Prefix: backupPrefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to list backup objects: %w", err)
		}

		name := strings.TrimPrefix(attrs.Name, backupPrefix)
		if name == "" {
			continue
		}

		reader, err := bucket.Object(attrs.Name).NewReader(ctx)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", name, err)
		}

		file, err := os.Create(filepath.Join(s.pathManager.GetDataDir(), name))
		if err != nil {
			reader.Close()
			return fmt.Errorf("failed to create %s: %w", name, err)
		}

		_, err = io.Copy(file, reader)
		reader.Close()
		file.Close()
		if err != nil {
			return fmt.Errorf("failed to download %s: %w", name, err)
		}

		s.log.WithFunc().WithField("file", name).Info("User data restored")
	}
	return nil
}
